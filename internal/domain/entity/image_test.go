package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageCategory_Names(t *testing.T) {
	assert.Len(t, AllImageCategories, 16)
	assert.Equal(t, "main", ImageMain.String())
	assert.Equal(t, "other10", ImageOther10.String())

	c, err := ParseImageCategory("other4")
	require.NoError(t, err)
	assert.Equal(t, ImageOther4, c)

	_, err = ParseImageCategory("other11")
	assert.ErrorIs(t, err, ErrUnknownImageCategory)

	var required []ImageCategory
	for _, c := range AllImageCategories {
		if c.Required() {
			required = append(required, c)
		}
	}
	assert.Equal(t, RequiredImageCategories, required)
}

func TestImageSet_JSON(t *testing.T) {
	var set ImageSet
	set.Set(ImageDrink, &ImageSlot{ID: "1", StoragePath: "cafes/x/drink-1.png", Caption: "latte"})

	raw, err := json.Marshal(set)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Len(t, generic, 16)
	assert.Nil(t, generic["main"])

	var decoded ImageSet
	require.NoError(t, json.Unmarshal([]byte(`{"drink":{"id":"1","storagePath":"p","caption":"c"},"bogus":{}}`), &decoded))
	assert.Equal(t, "p", decoded.Get(ImageDrink).StoragePath)
	assert.Equal(t, []ImageCategory{ImageDrink}, decoded.Populated())
}

func TestSeatCount_JSON(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{input: `12`, want: 12, wantOK: true},
		{input: `"30"`, want: 30, wantOK: true},
		{input: `""`, wantOK: false},
		{input: `null`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var s SeatCount
			require.NoError(t, json.Unmarshal([]byte(tt.input), &s))
			n, ok := s.Int()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, n)
		})
	}

	raw, err := json.Marshal(struct {
		A SeatCount `json:"a"`
		B SeatCount `json:"b"`
	}{A: Seats(4)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":4,"b":""}`, string(raw))

	var s SeatCount
	assert.Error(t, json.Unmarshal([]byte(`"many"`), &s))
}

func TestSeatCount_JSONStrictNumbers(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "whole float", input: `12.0`, want: 12},
		{name: "exponent", input: `1e3`, want: 1000},
		{name: "zero", input: `0`, want: 0},
		{name: "upper bound", input: `1000000`, want: 1000000},
		{name: "fraction", input: `12.5`, wantErr: true},
		{name: "quoted fraction", input: `"2.7"`, wantErr: true},
		{name: "negative", input: `-3`, wantErr: true},
		{name: "above bound", input: `1000001`, wantErr: true},
		{name: "beyond int range", input: `1e300`, wantErr: true},
		{name: "quoted NaN", input: `"NaN"`, wantErr: true},
		{name: "quoted infinity", input: `"Inf"`, wantErr: true},
		{name: "quoted negative infinity", input: `"-Infinity"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s SeatCount
			err := json.Unmarshal([]byte(tt.input), &s)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSeats)

				return
			}
			require.NoError(t, err)
			n, ok := s.Int()
			assert.True(t, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestImageSlot_StagedState(t *testing.T) {
	tests := []struct {
		name          string
		slot          *ImageSlot
		wantPopulated bool
		wantReattach  bool
	}{
		{name: "nil", slot: nil},
		{name: "uploaded path", slot: &ImageSlot{StoragePath: "cafes/x/main-1.jpg"}, wantPopulated: true},
		{name: "pending payload", slot: &ImageSlot{FileBase64: "data:image/png;base64,AAAA"}, wantPopulated: true},
		{name: "staged without payload", slot: &ImageSlot{StoragePath: "cafes/x/main-1.jpg", Staged: true}, wantReattach: true},
		{name: "staged with new payload", slot: &ImageSlot{StoragePath: "cafes/x/main-1.jpg", Staged: true, FileBase64: "data:image/png;base64,AAAA"}, wantPopulated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantPopulated, tt.slot.Populated())
			assert.Equal(t, tt.wantReattach, tt.slot.NeedsReattach())
		})
	}
}

func TestCafeRow_ImagePathColumns(t *testing.T) {
	row := &CafeRow{}
	row.SetImagePath(ImageFood, "food.jpg")
	row.SetImagePath(ImageOther2, "o2.jpg")
	row.SetImagePath(ImageOther5, "o5.jpg")

	assert.Equal(t, "food.jpg", row.ImagePath(ImageFood))
	assert.Equal(t, []string{"", "o2.jpg", "", "", "o5.jpg"}, row.ImageOtherPaths)

	row.SetImagePath(ImageOther5, "")
	assert.Equal(t, []string{"", "o2.jpg"}, row.ImageOtherPaths)
	assert.Empty(t, row.ImagePath(ImageOther9))

	row.SetImagePath(ImageFood, "")
	assert.Nil(t, row.ImageFoodPath)
}

func TestCafeFormPayload_ApplyFacilityRules(t *testing.T) {
	form := NewEmptyForm()
	form.AllowsShortLeave = true
	form.ApplyFacilityRules()
	assert.False(t, form.AllowsShortLeave)

	form.FacilityType = FacilityTypeCoworking
	form.AllowsShortLeave = true
	form.ApplyFacilityRules()
	assert.True(t, form.AllowsShortLeave)
}
