package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		args []string
		ok   bool
	}{
		{"cmd grid --show", []string{"grid", "--show"}, true},
		{"cmd   move  1 2  3 ", []string{"move", "1", "2", "3"}, true},
		{"cmd ", nil, true},
		{"cmd", nil, true},
		{"CMD grid", nil, false},
		{"spawn a cube", nil, false},
	}
	for _, tt := range tests {
		args, ok := Parse(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.args, args, tt.line)
	}
}

func TestExecute(t *testing.T) {
	r := NewRegistry()
	fs := NewFlagSet("grid")
	show := fs.Bool("show", false, "show the grid")
	hide := fs.Bool("hide", false, "hide the grid")
	var calls []bool
	r.Register("grid", "toggle the ground grid", fs, func() error {
		calls = append(calls, *show && !*hide)
		return nil
	})

	require.NoError(t, r.Execute([]string{"grid", "--show"}))
	require.NoError(t, r.Execute([]string{"grid", "--hide"}))
	assert.Equal(t, []bool{true, false}, calls, "flags reset between runs")

	err := r.Execute([]string{"grid", "--bogus"})
	assert.Error(t, err)
	assert.Error(t, r.Execute(nil))
	assert.True(t, errors.Is(r.Execute([]string{"nope"}), ErrUnknown))
}

func TestPositionalArgsAndErrors(t *testing.T) {
	r := NewRegistry()
	fs := NewFlagSet("add")
	var got []string
	r.Register("add", "", fs, func() error {
		got = fs.Args()
		if len(got) == 0 {
			return errors.New("usage: add <kind>")
		}
		return nil
	})

	handled, err := r.ExecuteLine("cmd add sphere 1 2 3")
	assert.True(t, handled)
	require.NoError(t, err)
	assert.Equal(t, []string{"sphere", "1", "2", "3"}, got)

	handled, err = r.ExecuteLine("cmd add")
	assert.True(t, handled)
	assert.EqualError(t, err, "usage: add <kind>")

	handled, err = r.ExecuteLine("hello")
	assert.False(t, handled)
	assert.NoError(t, err)
}

func TestFlagsAnywhereAndNegativeNumbers(t *testing.T) {
	r := NewRegistry()
	fs := NewFlagSet("move")
	abs := fs.Bool("abs", false, "")
	id := fs.String("id", "", "")
	var got []string
	r.Register("move", "", fs, func() error { got = fs.Args(); return nil })

	require.NoError(t, r.Execute([]string{"move", "-1", "0.5", "-2.5", "--abs", "--id", "3"}))
	assert.Equal(t, []string{"-1", "0.5", "-2.5"}, got)
	assert.True(t, *abs)
	assert.Equal(t, "3", *id)

	require.NoError(t, r.Execute([]string{"move", "--id=4", "1", "--", "--abs"}))
	assert.Equal(t, []string{"1", "--abs"}, got)
	assert.False(t, *abs)
	assert.Equal(t, "4", *id)
}

func TestHelpAndNames(t *testing.T) {
	r := NewRegistry()
	fs := NewFlagSet("fps")
	fs.Bool("show", false, "")
	r.Register("fps", "FPS counter", fs, func() error { return nil })
	r.Register("undo", "undo the last edit", nil, func() error { return nil })

	assert.Equal(t, []string{"fps", "undo"}, r.Names())
	assert.Equal(t, []string{"fps - FPS counter [--show]", "undo - undo the last edit"}, r.Help())
	_, ok := r.Lookup("undo")
	assert.True(t, ok)
	require.NoError(t, r.Execute([]string{"undo"}))
}
