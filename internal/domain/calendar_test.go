package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_MondayOf(t *testing.T) {
	want := NewDate(2024, time.June, 10)
	for day := 10; day <= 16; day++ {
		d := NewDate(2024, time.June, day)
		assert.Equal(t, want, d.MondayOf(), d.String())
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-06-12 ")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-12", d.String())
	assert.Equal(t, time.Wednesday, d.Weekday())

	for _, bad := range []string{"", "12/06/2024", "2024-02-30", "2024-6-1"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestDate_At(t *testing.T) {
	loc := time.FixedZone("UTC-4", -4*60*60)
	at := NewDate(2024, time.June, 12).At(TimeOfDay{Hour: 8, Minute: 15}, loc)
	assert.Equal(t, time.Date(2024, 6, 12, 12, 15, 0, 0, time.UTC), at.UTC())
}

func TestDateOf_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-4", -4*60*60)
	instant := time.Date(2024, 6, 13, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-12", DateOf(instant.In(loc)).String())
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, time.June, 10))
	require.NoError(t, err)
	assert.Equal(t, `"2024-06-10"`, string(b))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-06-14"`), &d))
	assert.Equal(t, NewDate(2024, time.June, 14), d)
	assert.ErrorIs(t, json.Unmarshal([]byte(`"14-06-2024"`), &d), ErrInvalidInput)
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-06-12", d.String())
	require.NoError(t, d.Scan([]byte("2024-06-13T00:00:00Z")))
	assert.Equal(t, "2024-06-13", d.String())
	assert.Error(t, d.Scan(42))

	v, err := NewDate(2024, time.June, 10).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", v)
}

func TestTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("08:15:00")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 8, Minute: 15}, tod)
	assert.Equal(t, "09:25", tod.Add(70*time.Minute).String())
	assert.Equal(t, "00:10", TimeOfDay{Hour: 23, Minute: 50}.Add(20*time.Minute).String())
	assert.True(t, tod.Before(TimeOfDay{Hour: 8, Minute: 16}))
	assert.False(t, tod.Before(tod))

	_, err = ParseTimeOfDay("8h15")
	assert.ErrorIs(t, err, ErrInvalidInput)

	var scanned TimeOfDay
	require.NoError(t, scanned.Scan("13:40:00"))
	assert.Equal(t, 13*60+40, scanned.Minutes())
	v, err := scanned.Value()
	require.NoError(t, err)
	assert.Equal(t, "13:40:00", v)
}

func TestTimeBlock_StartOn(t *testing.T) {
	b := NewTimeBlock("Block 1-2", TimeOfDay{Hour: 8, Minute: 15}, TimeOfDay{Hour: 9, Minute: 25}, DefaultBlockCapacity)
	start := b.StartOn(NewDate(2024, time.June, 10), time.UTC)
	assert.Equal(t, time.Date(2024, 6, 10, 8, 15, 0, 0, time.UTC), start)
}

func TestIdentity_HasRole(t *testing.T) {
	id := Identity{UserID: "u1", Roles: []string{RoleMember}}
	assert.True(t, id.HasRole(RoleMember))
	assert.False(t, id.HasRole(RoleAdmin))
}

func TestPaginationParams(t *testing.T) {
	p := PaginationParams{Page: 0, PageSize: 500}.Normalize()
	assert.Equal(t, PaginationParams{Page: 1, PageSize: MaxPageSize}, p)
	assert.Equal(t, 0, p.Offset())
	assert.Equal(t, 40, PaginationParams{Page: 3, PageSize: 20}.Offset())
	assert.Equal(t, DefaultPageSize, PaginationParams{}.Normalize().PageSize)
}

func TestSlotKey_String(t *testing.T) {
	k := SlotKey{BlockID: "b1", Date: NewDate(2024, time.June, 10)}
	assert.Equal(t, "b1@2024-06-10", k.String())
}
