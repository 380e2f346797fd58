package shared_test

import (
	"errors"
	"testing"

	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testUserMarker struct{}
type testEntryMarker struct{}

type testUserID = shared.EntityID[testUserMarker]

var errInvalidTestUser = shared.NewDomainError("TEST_USER_ID_INVALID", "invalid test user id")

// ===== EntityID[T] 基礎測試 =====

func TestNewEntityID_GeneratesUniqueUUIDs(t *testing.T) {
	// Act
	id1 := shared.NewEntityID[testUserMarker]()
	id2 := shared.NewEntityID[testUserMarker]()

	// Assert
	assert.False(t, id1.IsEmpty())
	assert.NotEqual(t, id1.String(), id2.String(), "每次生成的 UUID 應該不同")
}

func TestEntityIDFromString_ValidUUID_Success(t *testing.T) {
	// Arrange
	valid := "550e8400-e29b-41d4-a716-446655440000"

	// Act
	id, err := shared.EntityIDFromString[testUserMarker]("  "+valid+" ", errInvalidTestUser)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, valid, id.String())
}

func TestEntityIDFromString_InvalidInput_ReturnsTemplateError(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"空字串", ""},
		{"不是 UUID 格式", "not-a-uuid"},
		{"部分 UUID", "550e8400-e29b"},
		{"nil UUID", "00000000-0000-0000-0000-000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			id, err := shared.EntityIDFromString[testUserMarker](tt.value, errInvalidTestUser)

			// Assert
			require.Error(t, err)
			assert.True(t, id.IsEmpty())
			assert.ErrorIs(t, err, errInvalidTestUser)

			var domainErr *shared.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tt.value, domainErr.Context["input"])
		})
	}
}

func TestEntityIDFromString_PlainErrorTemplate_ReturnedAsIs(t *testing.T) {
	// Arrange
	plain := errors.New("plain error")

	// Act
	_, err := shared.EntityIDFromString[testUserMarker]("bad", plain)

	// Assert
	assert.Equal(t, plain, err)
}

func TestEntityID_String_NormalizesToLowercase(t *testing.T) {
	// Act
	id, err := shared.EntityIDFromString[testUserMarker]("550E8400-E29B-41D4-A716-446655440000", errInvalidTestUser)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
}

func TestEntityID_Equals(t *testing.T) {
	// Arrange
	raw := "550e8400-e29b-41d4-a716-446655440000"
	a, _ := shared.EntityIDFromString[testUserMarker](raw, errInvalidTestUser)
	b, _ := shared.EntityIDFromString[testUserMarker](raw, errInvalidTestUser)

	// Assert
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(shared.NewEntityID[testUserMarker]()))
}

func TestEntityID_Suffix(t *testing.T) {
	// Arrange
	id, _ := shared.EntityIDFromString[testEntryMarker]("550e8400-e29b-41d4-a716-446655440000", errInvalidTestUser)

	// Assert
	assert.Equal(t, "440000", id.Suffix(6))
	assert.Len(t, id.Suffix(100), 32)
}

func TestEntityID_ZeroValueIsEmpty(t *testing.T) {
	var zero testUserID
	assert.True(t, zero.IsEmpty())
}
