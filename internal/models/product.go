// Package models содержит доменные структуры витрины: товары каталога,
// корзину, заказы, подписчиков, уровни подписки и план действий.
// Структуры сериализуются в JSON для хранилища ключ-значение и HTTP API.
package models

// Product описывает цифровой товар каталога. Неизменяем после загрузки каталога.
type Product struct {
	ID      string   `json:"id" yaml:"id"`           // Уникальный в пределах каталога идентификатор
	Title   string   `json:"title" yaml:"title"`     // Название товара
	Price   float64  `json:"price" yaml:"price"`     // Цена за единицу, неотрицательная
	Bullets []string `json:"bullets" yaml:"bullets"` // Пункты описания в порядке показа
	Image   string   `json:"img" yaml:"img"`         // Ссылка на обложку
	Color   string   `json:"color" yaml:"color"`     // Цветовой тег для отображения
}

// CartItem снимок товара на момент добавления в корзину.
// Количества нет: повторное добавление даёт повторную запись.
type CartItem = Product

// Cart представление корзины для API.
type Cart struct {
	Items []CartItem `json:"items"`
	Count int        `json:"count"`
	Total float64    `json:"total"`
}

// NewCart собирает представление корзины и считает итог.
func NewCart(items []CartItem) Cart {
	if items == nil {
		items = []CartItem{}
	}
	var total float64
	for _, it := range items {
		total += it.Price
	}
	return Cart{Items: items, Count: len(items), Total: total}
}

// DefaultCatalog возвращает демонстрационный каталог.
func DefaultCatalog() []Product {
	return []Product{
		{
			ID:      "ebook-1",
			Title:   "Fix It Fast: Home Repair Basics",
			Price:   27,
			Bullets: []string{"Plumbing quick fixes", "Wall patching checklist", "Tool guide"},
			Image:   "https://images.unsplash.com/photo-1581574208731-6a9b2c3b7a2b?q=80&w=800&auto=format&fit=crop",
			Color:   "bg-amber-50",
		},
		{
			ID:      "ebook-2",
			Title:   "Auto Care for Beginners",
			Price:   37,
			Bullets: []string{"MAF sensor & diagnostics", "Oil change walkthrough", "Safety checklist"},
			Image:   "https://images.unsplash.com/photo-1511919884226-fd3cad34687c?q=80&w=800&auto=format&fit=crop",
			Color:   "bg-sky-50",
		},
		{
			ID:      "bundle-1",
			Title:   "DIY Repair Academy Bundle",
			Price:   67,
			Bullets: []string{"All guides + checklists", "Printable templates", "Lifetime updates"},
			Image:   "https://images.unsplash.com/photo-1551836022-d5d88e9218df?q=80&w=800&auto=format&fit=crop",
			Color:   "bg-emerald-50",
		},
	}
}
