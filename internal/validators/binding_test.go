package validators

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindingSample struct {
	Slug   string `binding:"required,slug"`
	Mobile string `binding:"required,mobile"`
}

func TestRegisterBindingTags(t *testing.T) {
	require.NoError(t, RegisterBindingTags())

	assert.NoError(t, binding.Validator.ValidateStruct(&bindingSample{Slug: "ok-slug", Mobile: "9999999999"}))

	err := binding.Validator.ValidateStruct(&bindingSample{Slug: "Not OK", Mobile: "12"})
	require.Error(t, err)

	msg := DescribeBindingError(err)
	assert.Contains(t, msg, "Slug: must be lowercase letters, digits and single hyphens")
	assert.Contains(t, msg, "Mobile: must be 10 to 15 digits")
}
