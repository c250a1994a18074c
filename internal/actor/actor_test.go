package actor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canchaya/canchas-api/internal/model"
)

func TestOwnsFailsClosed(t *testing.T) {
	cases := []struct {
		name  string
		actor Actor
		owner uint64
		ok    bool
	}{
		{"owner", Club{UserID: 1, ClubID: 10}, 10, true},
		{"other club", Club{UserID: 2, ClubID: 11}, 10, false},
		{"club without profile", Club{UserID: 3}, 0, false},
		{"athlete", Athlete{UserID: 4, AthleteID: 7}, 10, false},
		{"anonymous", Anonymous{}, 10, false},
		{"nil actor", nil, 10, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Owns(tc.actor, tc.owner)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, model.ErrForbidden)
		})
	}
}

func TestRequireClub(t *testing.T) {
	c, err := RequireClub(Club{UserID: 1, ClubID: 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), c.ClubID)

	_, err = RequireClub(Athlete{UserID: 1})
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestScopeAndCanView(t *testing.T) {
	assert.True(t, Scope(Anonymous{}).Public())
	assert.True(t, Scope(Athlete{UserID: 1}).Public())
	assert.Equal(t, uint64(5), Scope(Club{UserID: 1, ClubID: 5}).ClubID)

	inactive := model.Venue{ClubID: 5, IsActive: false}
	assert.True(t, CanView(Club{ClubID: 5}, inactive))
	assert.False(t, CanView(Club{ClubID: 6}, inactive))
	assert.False(t, CanView(Anonymous{}, inactive))
	assert.True(t, CanView(Anonymous{}, model.Venue{ClubID: 5, IsActive: true}))
}

func TestContextRoundTrip(t *testing.T) {
	assert.Equal(t, Anonymous{}, FromContext(context.Background()))
	ctx := WithActor(context.Background(), Club{UserID: 1, ClubID: 2})
	assert.Equal(t, Club{UserID: 1, ClubID: 2}, FromContext(ctx))
	assert.Equal(t, "club", Kind(FromContext(ctx)))
	assert.Equal(t, uint64(1), UserID(FromContext(ctx)))
}
