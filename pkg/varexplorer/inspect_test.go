package varexplorer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/sidecomm/pkg/varexplorer"
)

type documented struct{}

func (documented) Doc() string { return "a documented value" }

type matrix struct{ rows, cols int }

func (m matrix) Shape() []int { return []int{m.rows, m.cols} }

func TestDescribe_String(t *testing.T) {
	model := varexplorer.Describe("greeting", "hello")

	assert.Equal(t, "greeting", model.Name)
	assert.Equal(t, "string", model.Type)
	assert.Equal(t, "hello", model.SampleValue)
	assert.Equal(t, 5, model.Size)
	assert.Empty(t, model.Error)
}

func TestDescribe_Nil(t *testing.T) {
	model := varexplorer.Describe("nothing", nil)

	assert.Equal(t, "nil", model.Type)
	assert.Nil(t, model.SampleValue)
	assert.Nil(t, model.Size)
	assert.Zero(t, model.SizeBytes)
}

func TestDescribe_SliceSampleIsTruncated(t *testing.T) {
	values := make([]int, 100)
	for i := range values {
		values[i] = i
	}

	model := varexplorer.Describe("numbers", values)

	assert.Equal(t, 100, model.Size)
	sample, ok := model.SampleValue.([]any)
	if assert.True(t, ok, "sample should be a slice, got %T", model.SampleValue) {
		assert.Len(t, sample, 5)
	}
}

func TestDescribe_LongStringTruncates(t *testing.T) {
	long := strings.Repeat("x", varexplorer.MaxStringLength*2)

	model := varexplorer.Describe("blob", long)

	sample, ok := model.SampleValue.(string)
	if assert.True(t, ok) {
		assert.True(t, strings.HasSuffix(sample, "..."))
		assert.LessOrEqual(t, len(sample), varexplorer.MaxStringLength+3)
	}
}

func TestDescribe_Docstring(t *testing.T) {
	model := varexplorer.Describe("doc", documented{})

	assert.Equal(t, "a documented value", model.Docstring)
}

func TestDescribe_Shape(t *testing.T) {
	model := varexplorer.Describe("m", matrix{rows: 3, cols: 4})

	assert.Equal(t, []int{3, 4}, model.Size)
	assert.Equal(t, []int{3, 4}, model.Extra["shape"])
}

func TestSanitize(t *testing.T) {
	// Channels are not JSON-serializable; they collapse to a string repr.
	ch := make(chan int)
	cleaned := varexplorer.Sanitize(ch)
	_, isString := cleaned.(string)
	assert.True(t, isString, "got %T", cleaned)

	// Serializable values pass through.
	assert.Equal(t, "hello", varexplorer.Sanitize("hello"))

	// Containers are cleaned recursively.
	nested := map[string]any{"ch": ch, "ok": 1}
	out, ok := varexplorer.Sanitize(nested).(map[string]any)
	if assert.True(t, ok) {
		_, isString := out["ch"].(string)
		assert.True(t, isString)
		assert.Equal(t, 1, out["ok"])
	}
}
