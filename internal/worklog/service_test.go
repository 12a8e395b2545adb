package worklog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lukeacko/worklog/internal/worklog"
	"github.com/lukeacko/worklog/pkg/models"
	"github.com/lukeacko/worklog/pkg/repository"
	"github.com/lukeacko/worklog/pkg/repository/mock"
)

func newService(t *testing.T) (*worklog.Service, *mock.Store) {
	t.Helper()
	store := mock.NewStore()
	svc := worklog.NewService(store, store, nil)
	if err := svc.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("SeedDefaults error: %v", err)
	}
	return svc, store
}

func TestCreateAndQueryEntry(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	e := models.LogEntry{
		JobNum:      "123",
		VIN:         "1HGCM82633A004352",
		Technician:  "John",
		Description: "Oil change",
		Date:        "2024-01-15",
	}
	stored, err := svc.CreateEntry(ctx, e)
	if err != nil {
		t.Fatalf("CreateEntry error: %v", err)
	}
	if stored.ID == "" {
		t.Fatalf("expected assigned id")
	}

	got, err := svc.QueryEntries(ctx, models.Filter{JobNum: "123"})
	if err != nil {
		t.Fatalf("QueryEntries error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 entry, got %d", len(got))
	}
	if got[0].JobNum != "123" || got[0].VIN != e.VIN || got[0].Technician != "John" ||
		got[0].Description != "Oil change" || got[0].Date != "2024-01-15" {
		t.Fatalf("stored entry mismatch: %#v", got[0])
	}
	if got[0].Status != models.StatusPending {
		t.Fatalf("expected default status Pending, got %q", got[0].Status)
	}
}

func TestCreateEntryRejectsInvalidInput(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	e := models.LogEntry{JobNum: "123", VIN: "SHORTVIN", Technician: "John", Description: "x", Date: "2024-01-15"}
	_, err := svc.CreateEntry(ctx, e)
	var verr *worklog.ValidationError
	if !errors.As(err, &verr) || verr.Reason != worklog.ReasonInvalidVin {
		t.Fatalf("expected InvalidVin, got %v", err)
	}

	e = models.LogEntry{JobNum: "123456", VIN: "1HGCM82633A004352", Technician: "John", Description: "x", Date: "2024-01-15"}
	_, err = svc.CreateEntry(ctx, e)
	if !errors.As(err, &verr) || verr.Reason != worklog.ReasonInvalidJobNumber {
		t.Fatalf("expected InvalidJobNumber, got %v", err)
	}

	// nothing persisted on either failure
	all, err := svc.QueryEntries(ctx, models.Filter{})
	if err != nil {
		t.Fatalf("QueryEntries error: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no persisted entries, got %d", len(all))
	}
}

func TestCreateEntryDuplicateJobNum(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	e := models.LogEntry{JobNum: "42", VIN: "1HGCM82633A004352", Technician: "Mike", Description: "brakes", Date: "2024-02-01"}
	if _, err := svc.CreateEntry(ctx, e); err != nil {
		t.Fatalf("CreateEntry error: %v", err)
	}

	e.Description = "different job, same number"
	if _, err := svc.CreateEntry(ctx, e); !errors.Is(err, repository.ErrDuplicateJobNum) {
		t.Fatalf("expected ErrDuplicateJobNum, got %v", err)
	}
}

func TestCreateEntryUnknownTechnician(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	e := models.LogEntry{JobNum: "7", VIN: "1HGCM82633A004352", Technician: "Nobody", Description: "x", Date: "2024-01-01"}
	if _, err := svc.CreateEntry(ctx, e); !errors.Is(err, worklog.ErrUnknownTechnician) {
		t.Fatalf("expected ErrUnknownTechnician, got %v", err)
	}

	// the inline add-new flow: upsert then retry
	if _, err := svc.UpsertTechnician(ctx, "Nobody"); err != nil {
		t.Fatalf("UpsertTechnician error: %v", err)
	}
	if _, err := svc.CreateEntry(ctx, e); err != nil {
		t.Fatalf("CreateEntry after upsert error: %v", err)
	}
}

func TestUpdateEntryReflectsNewValues(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	stored, err := svc.CreateEntry(ctx, models.LogEntry{
		JobNum: "100", VIN: "1HGCM82633A004352", Technician: "John", Description: "old", Date: "2024-01-01",
	})
	if err != nil {
		t.Fatalf("CreateEntry error: %v", err)
	}

	upd := models.LogEntry{
		JobNum: "100", VIN: "1HGCM82633A004352", Technician: "Sarah", Description: "new description",
		Date: "2024-03-03", Status: models.StatusComplete,
	}
	if _, err := svc.UpdateEntry(ctx, stored.ID, upd); err != nil {
		t.Fatalf("UpdateEntry error: %v", err)
	}

	got, err := svc.QueryEntries(ctx, models.Filter{JobNum: "100"})
	if err != nil {
		t.Fatalf("QueryEntries error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].Technician != "Sarah" || got[0].Description != "new description" || got[0].Status != models.StatusComplete {
		t.Fatalf("update not reflected: %#v", got[0])
	}
	if got[0].Description == "old" {
		t.Fatalf("old values still present")
	}
}

func TestUpdateEntryJobNumChangeGuarded(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a, err := svc.CreateEntry(ctx, models.LogEntry{
		JobNum: "1", VIN: "1HGCM82633A004352", Technician: "John", Description: "a", Date: "2024-01-01",
	})
	if err != nil {
		t.Fatalf("CreateEntry error: %v", err)
	}
	if _, err := svc.CreateEntry(ctx, models.LogEntry{
		JobNum: "2", VIN: "1HGCM82633A004353", Technician: "John", Description: "b", Date: "2024-01-02",
	}); err != nil {
		t.Fatalf("CreateEntry error: %v", err)
	}

	upd := models.LogEntry{JobNum: "2", VIN: "1HGCM82633A004352", Technician: "John", Description: "a", Date: "2024-01-01"}
	if _, err := svc.UpdateEntry(ctx, a.ID, upd); !errors.Is(err, repository.ErrDuplicateJobNum) {
		t.Fatalf("expected ErrDuplicateJobNum on jobnum collision, got %v", err)
	}
}

func TestDeleteEntryGone(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	stored, err := svc.CreateEntry(ctx, models.LogEntry{
		JobNum: "55", VIN: "1HGCM82633A004352", Technician: "Alex", Description: "x", Date: "2024-01-01",
	})
	if err != nil {
		t.Fatalf("CreateEntry error: %v", err)
	}

	if err := svc.DeleteEntry(ctx, stored.ID); err != nil {
		t.Fatalf("DeleteEntry error: %v", err)
	}

	got, err := svc.QueryEntries(ctx, models.Filter{})
	if err != nil {
		t.Fatalf("QueryEntries error: %v", err)
	}
	for _, e := range got {
		if e.ID == stored.ID {
			t.Fatalf("deleted entry still returned: %#v", e)
		}
	}

	if err := svc.DeleteEntry(ctx, stored.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteTechnicianInUse(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.CreateEntry(ctx, models.LogEntry{
		JobNum: "9", VIN: "1HGCM82633A004352", Technician: "Mike", Description: "x", Date: "2024-01-01",
	}); err != nil {
		t.Fatalf("CreateEntry error: %v", err)
	}

	if err := svc.DeleteTechnician(ctx, "Mike"); !errors.Is(err, repository.ErrTechnicianInUse) {
		t.Fatalf("expected ErrTechnicianInUse, got %v", err)
	}

	// unreferenced technician deletes cleanly
	if err := svc.DeleteTechnician(ctx, "Sarah"); err != nil {
		t.Fatalf("DeleteTechnician error: %v", err)
	}
	techs, err := svc.ListTechnicians(ctx)
	if err != nil {
		t.Fatalf("ListTechnicians error: %v", err)
	}
	for _, tech := range techs {
		if tech.Name == "Sarah" {
			t.Fatalf("Sarah still in roster")
		}
	}
}

func TestRenameTechnicianRepointsEntries(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, jn := range []string{"10", "11"} {
		if _, err := svc.CreateEntry(ctx, models.LogEntry{
			JobNum: jn, VIN: "1HGCM82633A00435" + jn[:1], Technician: "John", Description: "x", Date: "2024-01-01",
		}); err != nil {
			t.Fatalf("CreateEntry error: %v", err)
		}
	}

	if err := svc.RenameTechnician(ctx, "John", "Johnny"); err != nil {
		t.Fatalf("RenameTechnician error: %v", err)
	}

	got, err := svc.QueryEntries(ctx, models.Filter{})
	if err != nil {
		t.Fatalf("QueryEntries error: %v", err)
	}
	for _, e := range got {
		if e.Technician != "Johnny" {
			t.Fatalf("entry not re-pointed: %#v", e)
		}
	}

	techs, err := svc.ListTechnicians(ctx)
	if err != nil {
		t.Fatalf("ListTechnicians error: %v", err)
	}
	found := false
	for _, tech := range techs {
		if tech.Name == "John" {
			t.Fatalf("old roster name survived rename")
		}
		if tech.Name == "Johnny" {
			found = true
		}
	}
	if !found {
		t.Fatalf("renamed technician missing from roster")
	}

	if err := svc.RenameTechnician(ctx, "Ghost", "Other"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound renaming unknown technician, got %v", err)
	}
}

func TestRenameTechnicianOntoExistingName(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	// both names seeded; renaming one onto the other would merge them
	if err := svc.RenameTechnician(ctx, "John", "Mike"); !errors.Is(err, repository.ErrDuplicateTechnician) {
		t.Fatalf("expected ErrDuplicateTechnician, got %v", err)
	}

	// roster untouched: one John, one Mike, no duplicates
	techs, err := svc.ListTechnicians(ctx)
	if err != nil {
		t.Fatalf("ListTechnicians error: %v", err)
	}
	counts := make(map[string]int)
	for _, tech := range techs {
		counts[tech.Name]++
	}
	if counts["John"] != 1 || counts["Mike"] != 1 {
		t.Fatalf("roster changed by failed rename: %v", counts)
	}
}

func TestSeedDefaultsIdempotent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	// second seed must not duplicate the roster
	if err := svc.SeedDefaults(ctx); err != nil {
		t.Fatalf("SeedDefaults error: %v", err)
	}
	techs, err := svc.ListTechnicians(ctx)
	if err != nil {
		t.Fatalf("ListTechnicians error: %v", err)
	}
	if len(techs) != len(worklog.DefaultTechnicians) {
		t.Fatalf("expected %d technicians, got %d", len(worklog.DefaultTechnicians), len(techs))
	}
}

func TestReconcileRestoresMissingTechnician(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	if _, err := svc.CreateEntry(ctx, models.LogEntry{
		JobNum: "77", VIN: "1HGCM82633A004352", Technician: "Alex", Description: "x", Date: "2024-01-01",
	}); err != nil {
		t.Fatalf("CreateEntry error: %v", err)
	}

	// simulate a rename interrupted after the roster write: the roster lost
	// the name while entries still reference it
	if err := store.DeleteTechnician(ctx, "Alex"); err != nil {
		t.Fatalf("DeleteTechnician error: %v", err)
	}

	if err := svc.Reconcile(ctx); err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	tech, err := store.GetTechnician(ctx, "Alex")
	if err != nil {
		t.Fatalf("GetTechnician error: %v", err)
	}
	if tech == nil {
		t.Fatalf("expected Alex restored to roster")
	}
}
