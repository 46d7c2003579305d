package services

import (
	"testing"

	"deen-quest-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func newAzkarFixture(t *testing.T) *AzkarService {
	t.Helper()
	return NewAzkarService(newTestDB(t))
}

func TestCreateAzkarNormalizesArabicText(t *testing.T) {
	svc := newAzkarFixture(t)
	group, err := svc.CreateGroup(&models.AzkarGroup{
		Name:     "Morning Azkar",
		NameAr:   "أذكار الصباح",
		Category: models.AzkarMorning,
	})
	require.NoError(t, err)

	// NFD form: alef + combining hamza instead of precomposed alef-hamza.
	decomposed := norm.NFD.String("أَذْكَار")
	azkar, err := svc.CreateAzkar(&models.Azkar{
		GroupID:    group.ID,
		Title:      "Morning remembrance",
		TitleAr:    decomposed,
		ArabicText: decomposed,
	})
	require.NoError(t, err)

	assert.Equal(t, norm.NFC.String(decomposed), azkar.ArabicText)
	assert.True(t, norm.NFC.IsNormalString(azkar.ArabicText))
	assert.True(t, norm.NFC.IsNormalString(azkar.TitleAr))
	assert.Equal(t, 1, azkar.TargetCount)
}

func TestCreateAzkarRequiresExistingGroup(t *testing.T) {
	svc := newAzkarFixture(t)
	_, err := svc.CreateAzkar(&models.Azkar{
		GroupID:    "no-such-group",
		Title:      "Orphan",
		ArabicText: "نص",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAzkarByID(t *testing.T) {
	svc := newAzkarFixture(t)
	group, err := svc.CreateGroup(&models.AzkarGroup{
		Name:     "Morning Azkar",
		NameAr:   "أذكار الصباح",
		Category: models.AzkarMorning,
	})
	require.NoError(t, err)
	created, err := svc.CreateAzkar(&models.Azkar{
		GroupID:    group.ID,
		Title:      "Tasbeeh",
		ArabicText: "سبحان الله",
	})
	require.NoError(t, err)

	found, err := svc.GetAzkarByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, found.Title)

	_, err = svc.GetAzkarByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateGroupValidation(t *testing.T) {
	svc := newAzkarFixture(t)
	_, err := svc.CreateGroup(&models.AzkarGroup{Name: "No Arabic name"})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestGetGroupsOrdersAzkar(t *testing.T) {
	svc := newAzkarFixture(t)
	group, err := svc.CreateGroup(&models.AzkarGroup{
		Name:     "Evening Azkar",
		NameAr:   "أذكار المساء",
		Category: models.AzkarEvening,
	})
	require.NoError(t, err)

	for i, title := range []string{"third", "first", "second"} {
		order := []int{3, 1, 2}[i]
		_, err := svc.CreateAzkar(&models.Azkar{
			GroupID:    group.ID,
			Title:      title,
			ArabicText: "نص",
			Order:      order,
		})
		require.NoError(t, err)
	}

	groups, err := svc.GetGroups()
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Azkar, 3)
	assert.Equal(t, "first", groups[0].Azkar[0].Title)
	assert.Equal(t, "second", groups[0].Azkar[1].Title)
	assert.Equal(t, "third", groups[0].Azkar[2].Title)
}
