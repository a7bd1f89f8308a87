package diagnostics

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorList_Counts(t *testing.T) {
	l := NewErrorList()
	l.SemErr(3, 5, CodeUndeclared)
	l.SynErr(1, 2, CodeUnexpectedToken)
	l.Warning(4, 1, "#warning directive")

	assert.Equal(t, 2, l.Count())
	assert.Equal(t, 1, l.WarningCount())

	errs := l.Errors()
	require.Len(t, errs, 3)
	assert.Equal(t, Semantic, errs[0].Phase)
	assert.Equal(t, CodeUndeclared, errs[0].Code)
	assert.Equal(t, "name is not declared", errs[0].Message)

	assert.Equal(t, map[int]int{CodeUndeclared: 1, CodeUnexpectedToken: 1}, l.CountByCode())
}

func TestErrorList_ErrorsIsACopy(t *testing.T) {
	l := NewErrorList()
	l.SemErr(1, 1, CodeRedeclared)

	errs := l.Errors()
	errs[0].Line = 99

	assert.Equal(t, 1, l.Errors()[0].Line)
}

func TestErrorList_WriteTo(t *testing.T) {
	l := NewErrorList()
	l.SemErr(7, 3, CodeRedeclared)
	l.SemErr(2, 9, CodeUndeclared)

	var buf bytes.Buffer
	_, err := l.WriteTo(&buf)
	require.NoError(t, err)

	want := "-- line 2 col 9: name is not declared\n" +
		"-- line 7 col 3: name is already declared in an enclosing scope\n" +
		"Number of errors detected: 2\n"
	assert.Equal(t, want, buf.String())
}

func TestMessage_UnknownCode(t *testing.T) {
	assert.Equal(t, "error 42", Message(42))
}

func TestErrorList_ConcurrentUse(t *testing.T) {
	l := NewErrorList()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				l.SemErr(i, j, CodeUndeclared)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, l.Count())
}
