package basestore

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/medifarma/backend/internal/domain"
)

func openTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, db
}

func TestAddAssignsIDAndSanitizes(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, domain.CanonicalRecord{
		Product:    "paracetamol 500mg",
		Ingredient: "paracetamol",
		Code:       "ee50451",
		Lab:        "medifarma s.a.",
		Price:      " S/ 3.50 ",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.ID == "" {
		t.Error("Add must assign an ID")
	}
	if added.Product != "PARACETAMOL 500MG" || added.Lab != "MEDIFARMA S.A." {
		t.Errorf("text fields should store upper-case, got %+v", added)
	}
	if added.Price != "S/ 3.50" {
		t.Errorf("Price = %q, want trimmed but case-untouched", added.Price)
	}
	if added.Origin != domain.OriginBase {
		t.Errorf("Origin = %q, want BASE", added.Origin)
	}

	got, err := store.Get(ctx, added.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Product != added.Product || got.Source != domain.BaseSourceName {
		t.Errorf("Get = %+v, want persisted record with BASE source default", got)
	}
}

func TestCodeAndRegistryMirror(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name         string
		code, regID  string
		wantCode     string
		wantRegistry string
	}{
		{"code only", "EE50451", "", "EE50451", "EE50451"},
		{"registry only", "", "N-12345", "N-12345", "N-12345"},
		{"code wins over registry", "EE50451", "N-12345", "EE50451", "EE50451"},
		{"both blank", "", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, err := store.Add(ctx, domain.CanonicalRecord{
				Product: "X", Code: tt.code, RegistryID: tt.regID,
			})
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			if added.Code != tt.wantCode || added.RegistryID != tt.wantRegistry {
				t.Errorf("code/registry = %q/%q, want %q/%q",
					added.Code, added.RegistryID, tt.wantCode, tt.wantRegistry)
			}
		})
	}
}

func TestAllReturnsInsertionOrder(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	for _, p := range []string{"AMOXICILINA", "PARACETAMOL", "IBUPROFENO"} {
		if _, err := store.Add(ctx, domain.CanonicalRecord{Product: p}); err != nil {
			t.Fatalf("Add %s: %v", p, err)
		}
	}

	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	want := []string{"AMOXICILINA", "PARACETAMOL", "IBUPROFENO"}
	if len(all) != len(want) {
		t.Fatalf("got %d records, want %d", len(all), len(want))
	}
	for i, p := range want {
		if all[i].Product != p {
			t.Errorf("position %d = %s, want %s", i, all[i].Product, p)
		}
	}
}

func TestUpdateAndDelete(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, domain.CanonicalRecord{Product: "PANADOL", Price: "S/ 10.00"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	updated, err := store.Update(ctx, added.ID, domain.CanonicalRecord{Product: "panadol forte", Price: "S/ 12.00"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != added.ID {
		t.Error("Update must keep the record's ID")
	}
	if updated.Product != "PANADOL FORTE" || updated.Price != "S/ 12.00" {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := store.Update(ctx, "no-such-id", domain.CanonicalRecord{}); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("Update on missing ID = %v, want ErrRecordNotFound", err)
	}

	if err := store.Delete(ctx, added.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, added.ID); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("Get after delete = %v, want ErrRecordNotFound", err)
	}
	if err := store.Delete(ctx, added.ID); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("second Delete = %v, want ErrRecordNotFound", err)
	}
}

func TestReplaceAll(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Add(ctx, domain.CanonicalRecord{Product: "OLD"}); err != nil {
			t.Fatal(err)
		}
	}

	err := store.ReplaceAll(ctx, []domain.CanonicalRecord{
		{Product: "nuevo uno"},
		{Product: "nuevo dos"},
	})
	if err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d records after replace, want 2", len(all))
	}
	if all[0].Product != "NUEVO UNO" || all[1].Product != "NUEVO DOS" {
		t.Errorf("replaced set = %v", all)
	}
	if all[0].ID == "" || all[0].ID == all[1].ID {
		t.Error("replaced records need fresh distinct IDs")
	}
}

func TestMutationsFireOnChangeAndBumpStamp(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	var fired int
	store.OnChange(func() { fired++ })

	if !store.LastModified().IsZero() {
		t.Error("fresh store should have a zero stamp")
	}

	added, err := store.Add(ctx, domain.CanonicalRecord{Product: "A"})
	if err != nil {
		t.Fatal(err)
	}
	afterAdd := store.LastModified()
	if afterAdd.IsZero() {
		t.Error("Add must bump the last-modified stamp")
	}

	if _, err := store.Update(ctx, added.ID, domain.CanonicalRecord{Product: "B"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, added.ID); err != nil {
		t.Fatal(err)
	}
	if err := store.ReplaceAll(ctx, nil); err != nil {
		t.Fatal(err)
	}

	if fired != 4 {
		t.Errorf("OnChange fired %d times, want once per mutation (4)", fired)
	}
	if !store.LastModified().After(afterAdd) {
		t.Error("later mutations must advance the stamp")
	}

	// Failed mutations stay silent.
	if err := store.Delete(ctx, "missing"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatal(err)
	}
	if fired != 4 {
		t.Errorf("OnChange fired on a failed mutation")
	}
}

func TestStampSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	store, err := NewStore(db)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Add(context.Background(), domain.CanonicalRecord{Product: "A"}); err != nil {
		t.Fatal(err)
	}
	stamp := store.LastModified()
	db.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db2.Close()
	store2, err := NewStore(db2)
	if err != nil {
		t.Fatal(err)
	}
	if !store2.LastModified().Equal(stamp) {
		t.Errorf("reopened stamp = %v, want %v", store2.LastModified(), stamp)
	}
}

func TestAdapterScopeMatching(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	seed := []domain.CanonicalRecord{
		{Product: "PANADOL 500MG", Ingredient: "PARACETAMOL"},
		{Product: "DOLOCORDRALAN", Ingredient: "PARACETAMOL + DICLOFENACO"},
		{Product: "AMOXIL", Ingredient: "AMOXICILINA"},
	}
	for _, r := range seed {
		if _, err := store.Add(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	adapter := NewAdapter(store)
	if adapter.Name() != domain.BaseSourceName || adapter.Origin() != domain.OriginBase {
		t.Fatalf("adapter identity = %s/%s", adapter.Name(), adapter.Origin())
	}

	q := domain.SearchQuery{Term: "paracetamol", Scope: domain.ScopeIngredient, Mode: domain.ModeBaseOnly}.Normalize()
	records, stamp, err := adapter.Fetch(ctx, q)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ingredient scope matched %d records, want 2", len(records))
	}
	if !stamp.Equal(store.LastModified()) {
		t.Error("Fetch should report the dataset stamp")
	}

	q = domain.SearchQuery{Term: "panadol", Scope: domain.ScopeProduct, Mode: domain.ModeBaseOnly}.Normalize()
	records, _, err = adapter.Fetch(ctx, q)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Product != "PANADOL 500MG" {
		t.Errorf("product scope matched %v", records)
	}
}
