package sl_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/lib/sl"
)

func TestErr_ReturnsCorrectAttr(t *testing.T) {
	err := errors.New("something went wrong")
	attr := sl.Err(err)

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("something went wrong"), attr.Value)
}

func TestErr_NilError(t *testing.T) {
	assert.NotPanics(t, func() {
		attr := sl.Err(nil)
		assert.Equal(t, "error", attr.Key)
		assert.Equal(t, "", attr.Value.String())
	})
}

func TestOpAndSession(t *testing.T) {
	op := sl.Op("storefront.Checkout")
	assert.Equal(t, "op", op.Key)
	assert.Equal(t, "storefront.Checkout", op.Value.String())

	session := sl.Session("abc")
	assert.Equal(t, "session_id", session.Key)
	assert.Equal(t, "abc", session.Value.String())
}
