package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowAccessors(t *testing.T) {
	r := Row{"NAME": "Widget", "PRICE": "2.50", "NOTE": ""}

	assert.Equal(t, "Widget", r.ID())

	v, ok := r.Get("NOTE")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = r.Get("MISSING")
	assert.False(t, ok)

	f, ok := r.Number("PRICE")
	assert.True(t, ok)
	assert.InDelta(t, 2.5, f, 1e-9)

	_, ok = r.Number("NAME")
	assert.False(t, ok)
}

func TestRowNumberRejectsNonFinite(t *testing.T) {
	for _, v := range []string{"NaN", "nan", "Inf", "-Inf", "+infinity", "1e400", ""} {
		_, ok := Row{"PRICE": v}.Number("PRICE")
		assert.False(t, ok, v)
	}
	f, ok := Row{"PRICE": " 3.5 "}.Number("PRICE")
	assert.True(t, ok)
	assert.InDelta(t, 3.5, f, 1e-9)
}

func TestRowCloneIsIndependent(t *testing.T) {
	r := Row{"NAME": "a"}
	c := r.Clone()
	c["NAME"] = "b"
	assert.Equal(t, "a", r.ID())
	assert.Equal(t, "b", CartItem{Row: c, Quantity: 1}.ID())
}
