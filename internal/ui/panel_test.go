package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	lines := Grid([]string{"NAME", "PRICE"}, [][]string{
		{"Widget", "2.50"},
		{"Gadget"},
		{"A very long product name", "1"},
	}, 10)
	require.Len(t, lines, 5)
	assert.Equal(t, "NAME       | PRICE", lines[0])
	assert.Equal(t, "-----------+------", lines[1])
	assert.Equal(t, "Widget     | 2.50 ", lines[2])
	assert.Equal(t, "Gadget     |      ", lines[3])
	assert.Equal(t, "A very lo… | 1    ", lines[4])
}

func TestFPanel(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	var buf bytes.Buffer
	FPanel(&buf, []string{"ab", "abcd"})
	assert.Equal(t, strings.Join([]string{
		"+------+",
		"| ab   |",
		"| abcd |",
		"+------+",
		"",
	}, "\n"), buf.String())
}

func TestOKFail(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	var out, errb bytes.Buffer
	prevOut, prevErr := Out, Err
	Out, Err = &out, &errb
	defer func() { Out, Err = prevOut, prevErr }()

	OK("saved")
	Fail("boom")
	assert.Equal(t, "x saved\n", out.String())
	assert.Equal(t, "! boom\n", errb.String())
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████ 100%", ProgressBar(3, 3, 5))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
}

func TestColorForcing(t *testing.T) {
	defer SetColorForcing(false, false)
	cur := Current()

	SetColorForcing(false, false)
	assert.Equal(t, "hi", C(cur.Success, "hi"), "a buffer is not a terminal")

	SetColorForcing(true, false)
	assert.Equal(t, cur.Success+"hi"+reset, C(cur.Success, "hi"))

	SetColorForcing(true, true)
	assert.Equal(t, "hi", C(cur.Success, "hi"))
}
