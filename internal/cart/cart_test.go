package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/csvboard/internal/model"
)

func TestCartLifecycle(t *testing.T) {
	c := New()
	widget := model.Row{"NAME": "Widget", "PRICE": "2.5"}
	gadget := model.Row{"NAME": "Gadget", "PRICE": "10"}

	it, err := c.Add(widget)
	require.NoError(t, err)
	assert.Equal(t, 1, it.Quantity)

	it, err = c.Add(widget)
	require.NoError(t, err)
	assert.Equal(t, 2, it.Quantity)

	_, err = c.Add(gadget)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 3, c.Units())
	assert.InDelta(t, 15.0, c.Total("PRICE"), 1e-9)

	require.NoError(t, c.SetQuantity("Gadget", 4))
	assert.InDelta(t, 45.0, c.Total("PRICE"), 1e-9)

	require.NoError(t, c.Adjust("Widget", -1))
	require.NoError(t, c.Adjust("Widget", -1))
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Gadget", items[0].ID())

	require.NoError(t, c.Remove("Gadget"))
	assert.Equal(t, 0, c.Len())
}

func TestCartErrors(t *testing.T) {
	c := New()
	_, err := c.Add(model.Row{"PRICE": "1"})
	assert.ErrorIs(t, err, ErrNoID)
	assert.ErrorIs(t, c.SetQuantity("nope", 3), ErrNotFound)
	assert.ErrorIs(t, c.Adjust("nope", 1), ErrNotFound)
	assert.ErrorIs(t, c.Remove("nope"), ErrNotFound)
}

func TestCartKeepsOwnCopy(t *testing.T) {
	c := New()
	row := model.Row{"NAME": "Widget", "PRICE": "1"}
	_, err := c.Add(row)
	require.NoError(t, err)
	row["PRICE"] = "99"

	assert.Equal(t, "1", c.Items()[0].Row["PRICE"])
	assert.InDelta(t, 0.0, c.Total("MISSING"), 1e-9)
}

func TestCartTotalSkipsNonFinitePrices(t *testing.T) {
	c := New()
	_, err := c.Add(model.Row{"NAME": "Widget", "PRICE": "2"})
	require.NoError(t, err)
	_, err = c.Add(model.Row{"NAME": "Ghost", "PRICE": "NaN"})
	require.NoError(t, err)
	_, err = c.Add(model.Row{"NAME": "Void", "PRICE": "Inf"})
	require.NoError(t, err)

	assert.InDelta(t, 2.0, c.Total("PRICE"), 1e-9)
}
