package trails

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultCatalog(t *testing.T) {
	catalog, err := NewDefaultCatalog()
	require.NoError(t, err)
	require.NotNil(t, catalog)

	all := catalog.All()
	require.NotEmpty(t, all)
	for _, trail := range all {
		assert.NoError(t, trail.Validate())
		assert.Len(t, trail.Steps, StepsPerTrail)
	}

	// ordered by id
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}

	trail, err := catalog.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "trilha-ansiedade", trail.Code)

	sameTrail, err := catalog.GetByCode("trilha-ansiedade")
	require.NoError(t, err)
	assert.Equal(t, trail.ID, sameTrail.ID)

	_, err = catalog.Get(999)
	assert.ErrorIs(t, err, ErrTrailNotFound)

	_, err = catalog.GetByCode("trilha-inexistente")
	assert.ErrorIs(t, err, ErrTrailNotFound)
}

func TestNewCatalog_Invalid(t *testing.T) {
	_, err := NewCatalog(strings.NewReader(`not json`))
	assert.Error(t, err)

	_, err = NewCatalog(strings.NewReader(`[]`))
	assert.Error(t, err)

	// six steps only
	sixSteps := validTestTrail()
	sixSteps.Steps = sixSteps.Steps[:6]
	sixStepsJson, jsonErr := json.Marshal([]TrailDefinition{sixSteps})
	require.NoError(t, jsonErr)
	_, err = NewCatalog(strings.NewReader(string(sixStepsJson)))
	assert.Error(t, err)

	// duplicate code
	trail1 := validTestTrail()
	trail2 := validTestTrail()
	trail2.ID = 2
	duplicatesJson, jsonErr := json.Marshal([]TrailDefinition{trail1, trail2})
	require.NoError(t, jsonErr)
	_, err = NewCatalog(strings.NewReader(string(duplicatesJson)))
	assert.Error(t, err)
}
