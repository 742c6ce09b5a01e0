package activity_test

import (
	"testing"

	"github.com/pverbeek/ganttvoice/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		itemID    string
		wantType  activity.Type
		wantTitle bool
	}{
		{"", activity.TypeMainItem, true},
		{"nan", activity.TypeMainItem, true},
		{"NaN", activity.TypeMainItem, true},
		{"3", activity.TypeMainItem, true},
		{"12", activity.TypeMainItem, true},
		{"A", activity.TypeMainItem, true},
		{"fase-2", activity.TypeMainItem, true},
		{"3.2", activity.TypeSubActivity, false},
		{" 3.2 ", activity.TypeSubActivity, false},
		{"3.2.1", activity.TypeSubSubActivity, false},
		{"1.4.1", activity.TypeSubSubActivity, false},
		{"1.2.3.4", activity.TypeSubSubActivity, false},
	}

	for _, tt := range tests {
		typ, isTitle := activity.Classify(tt.itemID)
		require.Equal(t, tt.wantType, typ, "item_id %q", tt.itemID)
		require.Equal(t, tt.wantTitle, isTitle, "item_id %q", tt.itemID)
	}
}

func TestParseCompletion(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		isText bool
		want   int
	}{
		{"fraction", "0.2", false, 20},
		{"whole fraction", "1", false, 100},
		{"already percent", "45", false, 45},
		{"numeric boundary", "0.35", false, 35},
		{"percent text", "20%", true, 20},
		{"percent text spaced", " 20 % ", true, 20},
		{"numeric text", "0.35", true, 35},
		{"garbage", "bad", true, 0},
		{"empty", "", false, 0},
		{"nan text", "nan", true, 0},
		{"percent garbage", "x%", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, activity.ParseCompletion(tt.raw, tt.isText))
		})
	}
}

func TestFirstMainItem(t *testing.T) {
	records := []activity.Record{
		{Name: "Piling", ItemID: "1.1", ActivityType: activity.TypeSubActivity},
		{Name: "Foundation", ItemID: "1", ActivityType: activity.TypeMainItem, IsTitle: true},
		{Name: "Rollout", ItemID: "2", ActivityType: activity.TypeMainItem, IsTitle: true},
	}

	first, ok := activity.FirstMainItem(records)
	require.True(t, ok)
	require.Equal(t, "Foundation", first.Name)

	_, ok = activity.FirstMainItem(nil)
	require.False(t, ok)
}
