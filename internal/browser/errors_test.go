package browser

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindString(t *testing.T) {
	cases := map[ErrorKind]string{
		KindValidation:      "validation",
		KindNotLaunched:     "not_launched",
		KindElementNotFound: "element_not_found",
		KindCapture:         "capture",
		KindEvaluation:      "evaluation",
		KindEngine:          "engine",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}

func TestValidationfNamesField(t *testing.T) {
	err := Validationf("quality", "quality must be between 0 and 100")

	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, "quality", err.Field)
	assert.Equal(t, "quality must be between 0 and 100", err.Error())
}

func TestNotLaunchedMessage(t *testing.T) {
	err := NotLaunched()

	assert.Equal(t, KindNotLaunched, err.Kind)
	assert.Contains(t, err.Error(), "not launched")
}

func TestElementNotFoundNamesSelector(t *testing.T) {
	err := ElementNotFound("#missing")

	assert.Equal(t, KindElementNotFound, err.Kind)
	assert.Contains(t, err.Error(), "#missing")
}

func TestEngineWrapsUnderlying(t *testing.T) {
	underlying := fmt.Errorf("net::ERR_CONNECTION_REFUSED")
	err := Engine("failed to navigate to http://localhost:1", underlying)

	assert.Equal(t, KindEngine, err.Kind)
	assert.Contains(t, err.Error(), "failed to navigate")
	assert.Contains(t, err.Error(), "ERR_CONNECTION_REFUSED")
	assert.True(t, errors.Is(err, underlying))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotLaunched, KindOf(NotLaunched()))
	assert.Equal(t, KindCapture, KindOf(Capture("screenshot produced no image data")))
	assert.Equal(t, KindEngine, KindOf(fmt.Errorf("plain error")))
}
