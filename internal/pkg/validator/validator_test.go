package validator

import (
	"context"
	"testing"

	"dailywage-hub/internal/core/domain"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = MustCompile(`{
	"type": "object",
	"required": ["name", "age"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"age": {"type": "integer", "minimum": 0}
	}
}`)

func TestValidate_OK(t *testing.T) {
	err := testSchema.Validate(context.Background(), []byte(`{"name":"Asha","age":30}`))
	assert.NoError(t, err)
}

func TestValidate_EmptyBody(t *testing.T) {
	err := testSchema.Validate(context.Background(), nil)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestValidate_MalformedJSON(t *testing.T) {
	err := testSchema.Validate(context.Background(), []byte(`{"name":`))
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestValidate_FieldErrors(t *testing.T) {
	err := testSchema.Validate(context.Background(), []byte(`{"age":-1}`))
	require.Error(t, err)

	var derr *domain.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.KindValidation, derr.Kind)

	fields := map[string]bool{}
	for _, f := range derr.Fields {
		fields[f.Field] = true
		assert.NotEmpty(t, f.Message)
	}
	assert.True(t, fields["name"], "missing required property is reported by name")
	assert.True(t, fields["age"], "minimum violation is reported on the property")
}

func TestMustCompile_PanicsOnBadSchema(t *testing.T) {
	assert.Panics(t, func() { MustCompile(`{`) })
}
