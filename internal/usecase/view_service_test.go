package usecase

import (
	"fmt"
	"testing"

	"github.com/medifarma/backend/internal/domain"
)

func resultSetOf(records ...domain.CanonicalRecord) domain.ResultSet {
	return domain.ResultSet{Records: records}
}

func TestViewPagination(t *testing.T) {
	records := make([]domain.CanonicalRecord, 57)
	for i := range records {
		records[i] = domain.CanonicalRecord{
			Code:    fmt.Sprintf("C%03d", i),
			Product: fmt.Sprintf("PRODUCT %03d", i),
			Price:   fmt.Sprintf("S/ %d.00", i+1),
			Source:  "Mifarma",
			Origin:  domain.OriginWeb,
		}
	}
	rs := resultSetOf(records...)
	svc := NewViewService()

	wantSizes := map[int]int{1: 25, 2: 25, 3: 7}
	for page, wantLen := range wantSizes {
		got := svc.View(rs, domain.ViewRequest{Page: page, PageSize: 25, SortColumn: domain.SortByPrice, SortAsc: true})
		if len(got.Records) != wantLen {
			t.Errorf("page %d: got %d records, want %d", page, len(got.Records), wantLen)
		}
		if got.Total != 57 || got.TotalPages != 3 {
			t.Errorf("page %d: total=%d pages=%d, want 57/3", page, got.Total, got.TotalPages)
		}
	}

	// Out-of-range pages clamp to the last page.
	p3 := svc.View(rs, domain.ViewRequest{Page: 3, PageSize: 25, SortColumn: domain.SortByPrice, SortAsc: true})
	p4 := svc.View(rs, domain.ViewRequest{Page: 4, PageSize: 25, SortColumn: domain.SortByPrice, SortAsc: true})
	if p4.Page != 3 {
		t.Errorf("page 4 clamped to %d, want 3", p4.Page)
	}
	if len(p4.Records) != len(p3.Records) || p4.Records[0].Code != p3.Records[0].Code {
		t.Error("clamped page should serve the last page's content")
	}
}

func TestViewEmptySet(t *testing.T) {
	svc := NewViewService()
	got := svc.View(resultSetOf(), domain.ViewRequest{Page: 5, PageSize: 25, SortColumn: domain.SortByPrice})

	if got.Total != 0 || got.TotalPages != 0 {
		t.Errorf("empty set: total=%d pages=%d, want 0/0", got.Total, got.TotalPages)
	}
	if got.Page != 1 {
		t.Errorf("empty set page = %d, want forced 1", got.Page)
	}
	if got.MinRecord != nil || got.MaxRecord != nil {
		t.Error("empty set must have absent min/max, not zero records")
	}
}

func TestViewMinMax(t *testing.T) {
	rs := resultSetOf(
		domain.CanonicalRecord{Code: "A", Price: "S/ 12.50", Source: "Mifarma"},
		domain.CanonicalRecord{Code: "B", Price: "S/ 8.00", Source: "Mifarma"},
		domain.CanonicalRecord{Code: "C", Price: "S/ 8.00", Source: "Inkafarma"},
		domain.CanonicalRecord{Code: "D", Price: "S/ 30.00", Source: "Farmauna"},
	)
	svc := NewViewService()

	for _, asc := range []bool{true, false} {
		got := svc.View(rs, domain.ViewRequest{Page: 1, PageSize: 2, SortColumn: domain.SortByPrice, SortAsc: asc})
		if got.MinRecord == nil || got.MinRecord.Code != "B" {
			t.Errorf("asc=%v: min = %+v, want first 8.00 occurrence (B)", asc, got.MinRecord)
		}
		if got.MaxRecord == nil || got.MaxRecord.Code != "D" {
			t.Errorf("asc=%v: max = %+v, want D", asc, got.MaxRecord)
		}
	}
}

func TestViewSortStability(t *testing.T) {
	rs := resultSetOf(
		domain.CanonicalRecord{Code: "A", Price: "S/ 5.00"},
		domain.CanonicalRecord{Code: "B", Price: "S/ 3.00"},
		domain.CanonicalRecord{Code: "C", Price: "S/ 5.00"},
		domain.CanonicalRecord{Code: "D", Price: "S/ 3.00"},
	)
	svc := NewViewService()

	got := svc.View(rs, domain.ViewRequest{Page: 1, PageSize: 25, SortColumn: domain.SortByPrice, SortAsc: true})
	wantOrder := []string{"B", "D", "A", "C"}
	for i, code := range wantOrder {
		if got.Records[i].Code != code {
			t.Fatalf("position %d = %s, want %s (ties must keep merge order)", i, got.Records[i].Code, code)
		}
	}
}

func TestViewUnparseablePricesSortLast(t *testing.T) {
	rs := resultSetOf(
		domain.CanonicalRecord{Code: "A", Price: "consultar"},
		domain.CanonicalRecord{Code: "B", Price: "S/ 3.00"},
		domain.CanonicalRecord{Code: "C", Price: "S/ 9.00"},
	)
	svc := NewViewService()

	for _, asc := range []bool{true, false} {
		got := svc.View(rs, domain.ViewRequest{Page: 1, PageSize: 25, SortColumn: domain.SortByPrice, SortAsc: asc})
		if got.Records[len(got.Records)-1].Code != "A" {
			t.Errorf("asc=%v: unparseable price should sort last, got order %v", asc, codes(got.Records))
		}
	}
}

func TestViewTextSort(t *testing.T) {
	rs := resultSetOf(
		domain.CanonicalRecord{Code: "1", Product: "ibuprofeno"},
		domain.CanonicalRecord{Code: "2", Product: "Ámoxicilina"},
		domain.CanonicalRecord{Code: "3", Product: "PANADOL"},
	)
	svc := NewViewService()

	got := svc.View(rs, domain.ViewRequest{Page: 1, PageSize: 25, SortColumn: domain.SortByProduct, SortAsc: true})
	wantOrder := []string{"2", "1", "3"} // accent-insensitive: AMOXICILINA, IBUPROFENO, PANADOL
	for i, code := range wantOrder {
		if got.Records[i].Code != code {
			t.Fatalf("text sort order %v, want codes %v", codes(got.Records), wantOrder)
		}
	}
}

func TestViewInvalidSortColumnFallsBack(t *testing.T) {
	rs := resultSetOf(
		domain.CanonicalRecord{Code: "A", Price: "S/ 9.00"},
		domain.CanonicalRecord{Code: "B", Price: "S/ 2.00"},
	)
	svc := NewViewService()

	got := svc.View(rs, domain.ViewRequest{Page: 1, PageSize: 25, SortColumn: "nonsense", SortAsc: true})
	if got.SortColumn != domain.SortByPrice {
		t.Errorf("SortColumn = %s, want fallback to price", got.SortColumn)
	}
	if got.Records[0].Code != "B" {
		t.Error("fallback sort should order by price ascending")
	}
}

func TestViewSourceFilter(t *testing.T) {
	rs := resultSetOf(
		domain.CanonicalRecord{Code: "A", Price: "S/ 5.00", Source: "Mifarma"},
		domain.CanonicalRecord{Code: "B", Price: "S/ 3.00", Source: "Inkafarma"},
		domain.CanonicalRecord{Code: "C", Price: "S/ 9.00", Source: "Mifarma"},
	)
	svc := NewViewService()

	got := svc.View(rs, domain.ViewRequest{Page: 1, PageSize: 25, SortColumn: domain.SortByPrice, SortAsc: true, Sources: []string{"Mifarma"}})
	if got.Total != 2 {
		t.Fatalf("filtered total = %d, want 2", got.Total)
	}
	// Statistics cover the filtered set, not the whole ResultSet.
	if got.MinRecord.Code != "A" || got.MaxRecord.Code != "C" {
		t.Errorf("filtered min/max = %s/%s, want A/C", got.MinRecord.Code, got.MaxRecord.Code)
	}
}

func TestExportReturnsFullSequence(t *testing.T) {
	records := make([]domain.CanonicalRecord, 57)
	for i := range records {
		records[i] = domain.CanonicalRecord{
			Code:  fmt.Sprintf("C%03d", i),
			Price: fmt.Sprintf("S/ %d.00", 57-i),
		}
	}
	svc := NewViewService()

	got := svc.Export(resultSetOf(records...), domain.ViewRequest{SortColumn: domain.SortByPrice, SortAsc: true})
	if len(got) != 57 {
		t.Fatalf("Export returned %d records, want the full 57", len(got))
	}
	if got[0].Code != "C056" {
		t.Errorf("Export should be sorted; first = %s, want C056", got[0].Code)
	}
}

func codes(records []domain.CanonicalRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Code
	}
	return out
}
