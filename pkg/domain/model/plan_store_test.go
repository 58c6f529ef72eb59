package model_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
	"github.com/secmon-lab/perfectday/pkg/domain/types"
)

func sequentialIDs() model.IDGenerator {
	n := 0
	return func() model.ItemID {
		n++
		return model.ItemID(fmt.Sprintf("plan-%d", n))
	}
}

func TestNewItemID(t *testing.T) {
	t.Run("ids generated in a tight loop are distinct", func(t *testing.T) {
		seen := make(map[model.ItemID]struct{})
		for range 10000 {
			id := model.NewItemID()
			_, dup := seen[id]
			gt.Bool(t, dup).False()
			seen[id] = struct{}{}
		}
	})

	t.Run("ids carry the plan prefix", func(t *testing.T) {
		gt.Bool(t, strings.HasPrefix(string(model.NewItemID()), "plan-")).True()
	})
}

func TestPlanStore_ReplaceAll(t *testing.T) {
	t.Run("assigns fresh ids and replaces everything", func(t *testing.T) {
		store := model.NewPlanStore(model.WithIDGenerator(sequentialIDs()))
		store.ReplaceAll(
			[]model.PlannedActivity{{Time: "09:00", Activity: "Coffee"}},
			[]model.SuggestionItem{{ID: "x1", Activity: "Museum"}},
			model.LocationMeta{City: "Lisbon", Weather: "21.0°C, Clear"},
		)
		store.ReplaceAll(
			[]model.PlannedActivity{{Time: "10:00", Activity: "Walk"}, {Time: "12:00", Activity: "Lunch"}},
			[]model.SuggestionItem{{ID: "y1", Activity: "Beach"}},
			model.LocationMeta{City: "Porto", Weather: "18.5°C, Cloudy/Rainy"},
		)

		plan := store.Plan()
		gt.Array(t, plan).Length(2)
		gt.Value(t, plan[0]).Equal(model.ItineraryItem{ID: "plan-2", Time: "10:00", Activity: "Walk"})
		gt.Value(t, plan[1]).Equal(model.ItineraryItem{ID: "plan-3", Time: "12:00", Activity: "Lunch"})
		gt.Value(t, store.Suggestions()).Equal([]model.SuggestionItem{{ID: "y1", Activity: "Beach"}})
		gt.Value(t, store.Location()).Equal(model.LocationMeta{City: "Porto", Weather: "18.5°C, Cloudy/Rainy"})
	})

	t.Run("does not touch the confirmed snapshot", func(t *testing.T) {
		store := model.NewPlanStore()
		store.ReplaceAll([]model.PlannedActivity{{Time: "09:00", Activity: "Coffee"}}, nil, model.LocationMeta{})
		confirmed := store.Confirm()

		store.ReplaceAll(nil, nil, model.LocationMeta{City: "Elsewhere"})
		gt.Array(t, store.Plan()).Length(0)
		gt.Value(t, store.Confirmed()).Equal(confirmed)
	})
}

func TestPlanStore_AddToPlan(t *testing.T) {
	t.Run("promotes suggestion and removes it from the pool", func(t *testing.T) {
		store := model.NewPlanStore()
		store.ReplaceAll(nil, []model.SuggestionItem{
			{ID: "s1", Activity: "Hike"},
			{ID: "s2", Activity: "Museum"},
		}, model.LocationMeta{})

		item := store.AddToPlan(model.SuggestionItem{ID: "s1", Activity: "Hike"})

		plan := store.Plan()
		gt.Array(t, plan).Length(1)
		gt.Value(t, plan[0]).Equal(item)
		gt.Value(t, plan[0].Activity).Equal("Hike")
		gt.Value(t, plan[0].Time).Equal("")
		gt.Value(t, string(plan[0].ID)).NotEqual("s1")
		gt.Value(t, store.Suggestions()).Equal([]model.SuggestionItem{{ID: "s2", Activity: "Museum"}})
	})

	t.Run("removes only the suggestion with the matching id", func(t *testing.T) {
		store := model.NewPlanStore()
		store.ReplaceAll(nil, []model.SuggestionItem{
			{ID: "s1", Activity: "Coffee"},
			{ID: "s2", Activity: "Coffee"},
			{ID: "s3", Activity: "Coffee"},
		}, model.LocationMeta{})

		store.AddToPlan(model.SuggestionItem{ID: "s2", Activity: "Coffee"})

		gt.Value(t, store.Suggestions()).Equal([]model.SuggestionItem{
			{ID: "s1", Activity: "Coffee"},
			{ID: "s3", Activity: "Coffee"},
		})
	})

	t.Run("unknown suggestion is appended without touching the pool", func(t *testing.T) {
		store := model.NewPlanStore()
		store.ReplaceAll(nil, []model.SuggestionItem{{ID: "s1", Activity: "Hike"}}, model.LocationMeta{})

		store.AddToPlan(model.SuggestionItem{ID: "manual", Activity: "Nap"})

		gt.Array(t, store.Plan()).Length(1)
		gt.Value(t, store.Plan()[0].Activity).Equal("Nap")
		gt.Array(t, store.Suggestions()).Length(1)
	})

	t.Run("N additions without yielding produce N distinct ids", func(t *testing.T) {
		store := model.NewPlanStore()
		const n = 500
		for i := range n {
			store.AddToPlan(model.SuggestionItem{ID: model.SuggestionID(fmt.Sprint(i)), Activity: "Same"})
		}

		seen := make(map[model.ItemID]struct{})
		for _, item := range store.Plan() {
			seen[item.ID] = struct{}{}
		}
		gt.Number(t, len(seen)).Equal(n)
	})
}

func TestPlanStore_UpdatePlanItem(t *testing.T) {
	newStore := func() *model.PlanStore {
		store := model.NewPlanStore(model.WithIDGenerator(sequentialIDs()))
		store.ReplaceAll([]model.PlannedActivity{
			{Time: "09:00", Activity: "Coffee"},
			{Time: "10:00", Activity: "Walk"},
		}, nil, model.LocationMeta{})
		return store
	}

	t.Run("updates time and activity", func(t *testing.T) {
		store := newStore()
		gt.Bool(t, store.UpdatePlanItem("plan-2", types.ItemFieldTime, "10:30")).True()
		gt.Bool(t, store.UpdatePlanItem("plan-2", types.ItemFieldActivity, "Long walk")).True()

		gt.Value(t, store.Plan()[1]).Equal(model.ItineraryItem{ID: "plan-2", Time: "10:30", Activity: "Long walk"})
		gt.Value(t, store.Plan()[0]).Equal(model.ItineraryItem{ID: "plan-1", Time: "09:00", Activity: "Coffee"})
	})

	t.Run("accepts free-form time text", func(t *testing.T) {
		store := newStore()
		gt.Bool(t, store.UpdatePlanItem("plan-1", types.ItemFieldTime, "after lunch-ish")).True()
		gt.Value(t, store.Plan()[0].Time).Equal("after lunch-ish")
	})

	t.Run("unknown id leaves plan unchanged", func(t *testing.T) {
		store := newStore()
		before := store.Plan()
		gt.Bool(t, store.UpdatePlanItem("plan-99", types.ItemFieldTime, "11:00")).False()
		gt.Value(t, store.Plan()).Equal(before)
	})

	t.Run("id field cannot be overwritten", func(t *testing.T) {
		store := newStore()
		before := store.Plan()
		gt.Bool(t, store.UpdatePlanItem("plan-1", types.ItemField("id"), "plan-2")).False()
		gt.Value(t, store.Plan()).Equal(before)
	})
}

func TestPlanStore_RemoveFromPlan(t *testing.T) {
	t.Run("removes the matching item only", func(t *testing.T) {
		store := model.NewPlanStore(model.WithIDGenerator(sequentialIDs()))
		store.ReplaceAll([]model.PlannedActivity{
			{Time: "09:00", Activity: "Coffee"},
			{Time: "10:00", Activity: "Walk"},
			{Time: "11:00", Activity: "Museum"},
		}, []model.SuggestionItem{{ID: "s1", Activity: "Hike"}}, model.LocationMeta{})

		gt.Bool(t, store.RemoveFromPlan("plan-2")).True()

		plan := store.Plan()
		gt.Array(t, plan).Length(2)
		gt.Value(t, plan[0].Activity).Equal("Coffee")
		gt.Value(t, plan[1].Activity).Equal("Museum")
		gt.Array(t, store.Suggestions()).Length(1)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		store := model.NewPlanStore()
		store.ReplaceAll([]model.PlannedActivity{{Time: "09:00", Activity: "Coffee"}}, nil, model.LocationMeta{})
		before := store.Plan()

		gt.Bool(t, store.RemoveFromPlan("missing")).False()
		gt.Value(t, store.Plan()).Equal(before)
	})
}

func TestPlanStore_Confirm(t *testing.T) {
	t.Run("snapshot is independent of later edits", func(t *testing.T) {
		store := model.NewPlanStore(model.WithIDGenerator(sequentialIDs()))
		store.ReplaceAll([]model.PlannedActivity{
			{Time: "09:00", Activity: "Coffee"},
			{Time: "10:00", Activity: "Walk"},
		}, []model.SuggestionItem{{ID: "s1", Activity: "Hike"}}, model.LocationMeta{})

		snapshot := store.Confirm()

		store.AddToPlan(model.SuggestionItem{ID: "s1", Activity: "Hike"})
		store.UpdatePlanItem("plan-1", types.ItemFieldActivity, "Tea")
		store.RemoveFromPlan("plan-2")

		gt.Value(t, store.Confirmed()).Equal(snapshot)
		gt.Value(t, store.Confirmed()[0].Activity).Equal("Coffee")
	})

	t.Run("returned snapshot cannot alias the store", func(t *testing.T) {
		store := model.NewPlanStore()
		store.ReplaceAll([]model.PlannedActivity{{Time: "09:00", Activity: "Coffee"}}, nil, model.LocationMeta{})

		snapshot := store.Confirm()
		snapshot[0].Activity = "changed"

		gt.Value(t, store.Confirmed()[0].Activity).Equal("Coffee")
		gt.Value(t, store.Plan()[0].Activity).Equal("Coffee")
	})

	t.Run("preserves insertion order", func(t *testing.T) {
		store := model.NewPlanStore()
		store.ReplaceAll(nil, []model.SuggestionItem{
			{ID: "a", Activity: "A"},
			{ID: "b", Activity: "B"},
			{ID: "c", Activity: "C"},
		}, model.LocationMeta{})
		store.AddToPlan(model.SuggestionItem{ID: "a", Activity: "A"})
		store.AddToPlan(model.SuggestionItem{ID: "b", Activity: "B"})
		store.AddToPlan(model.SuggestionItem{ID: "c", Activity: "C"})

		snapshot := store.Confirm()
		gt.Array(t, snapshot).Length(3)
		gt.Value(t, []string{snapshot[0].Activity, snapshot[1].Activity, snapshot[2].Activity}).Equal([]string{"A", "B", "C"})
	})

	t.Run("empty plan yields empty snapshot", func(t *testing.T) {
		store := model.NewPlanStore()
		gt.Array(t, store.Confirm()).Length(0)
		gt.Array(t, store.Confirmed()).Length(0)
	})
}

func TestPlanStore_RoundTrip(t *testing.T) {
	store := model.NewPlanStore()
	store.ReplaceAll(
		[]model.PlannedActivity{{Time: "09:00", Activity: "Coffee"}},
		[]model.SuggestionItem{{ID: "x1", Activity: "Museum"}},
		model.LocationMeta{City: "Kyoto", Weather: "20.0°C, Clear"},
	)

	museum := store.AddToPlan(model.SuggestionItem{ID: "x1", Activity: "Museum"})
	store.UpdatePlanItem(museum.ID, types.ItemFieldTime, "11:00")
	snapshot := store.Confirm()

	gt.Array(t, snapshot).Length(2)
	gt.Value(t, snapshot[0].Time).Equal("09:00")
	gt.Value(t, snapshot[0].Activity).Equal("Coffee")
	gt.Value(t, snapshot[1].Time).Equal("11:00")
	gt.Value(t, snapshot[1].Activity).Equal("Museum")
	gt.Array(t, store.Suggestions()).Length(0)
}
