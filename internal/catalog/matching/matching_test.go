package matching

import (
	"reflect"
	"testing"

	"estate_portal_backend/internal/catalog/domain"

	"github.com/google/uuid"
)

func property(title string, price int64, area int, mutate ...func(*domain.Property)) domain.Property {
	p := domain.Property{
		ID:      uuid.New(),
		Title:   title,
		Address: title + " Street 1",
		City:    "Springfield",
		Price:   price,
		Beds:    2,
		Baths:   1,
		Area:    area,
		Status:  domain.StatusForSale,
		Type:    "Apartment",
	}
	for _, fn := range mutate {
		fn(&p)
	}
	return p
}

func ids(list []domain.Property) []uuid.UUID {
	out := make([]uuid.UUID, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func catalog() []domain.Property {
	return []domain.Property{
		property("Harbor Loft", 300000, 900, func(p *domain.Property) {
			p.Amenities = []string{"Covered Parking", "WiFi"}
		}),
		property("Hill Villa", 950000, 3200, func(p *domain.Property) {
			p.Type = "Villa"
			p.Beds = 5
			p.Baths = 4
			p.Features = []string{"Pet friendly garden"}
		}),
		property("Downtown Studio", 1800, 450, func(p *domain.Property) {
			p.Status = domain.StatusForRent
			p.City = "Shelbyville"
			p.Amenities = []string{"Fully Furnished"}
		}),
		property("Lake House", 300000, 1500, func(p *domain.Property) {
			p.Type = "House"
			p.Beds = 3
		}),
		property("Old Mill", 120000, 2000, func(p *domain.Property) {
			p.Status = domain.StatusSold
		}),
	}
}

func TestEmptyFilterMatchesEverythingInOrder(t *testing.T) {
	candidates := catalog()
	got := Match(candidates, FilterRequest{}, SortDefault)
	if !reflect.DeepEqual(ids(got), ids(candidates)) {
		t.Fatalf("default sort must preserve candidate order")
	}
	got[0].Title = "mutated"
	if candidates[0].Title == "mutated" {
		t.Fatalf("result must not share storage with candidates")
	}
}

func TestMatchIsDeterministic(t *testing.T) {
	candidates := catalog()
	filter := FilterRequest{MinPrice: "100000", Keyword: "l"}
	first := ids(Match(candidates, filter, SortPriceHighLow))
	for i := 0; i < 10; i++ {
		if again := ids(Match(candidates, filter, SortPriceHighLow)); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, first, again)
		}
	}
}

func TestPriceSortIsStable(t *testing.T) {
	candidates := catalog()
	asc := Match(candidates, FilterRequest{}, SortPriceLowHigh)
	desc := Match(candidates, FilterRequest{}, SortPriceHighLow)

	// Harbor Loft and Lake House share a price; candidate order puts the loft first.
	position := func(list []domain.Property, title string) int {
		for i, p := range list {
			if p.Title == title {
				return i
			}
		}
		return -1
	}
	for name, list := range map[string][]domain.Property{"asc": asc, "desc": desc} {
		if position(list, "Harbor Loft") > position(list, "Lake House") {
			t.Fatalf("%s: equal-price entries swapped", name)
		}
	}

	if asc[0].Title != "Downtown Studio" || desc[0].Title != "Hill Villa" {
		t.Fatalf("unexpected extremes asc=%s desc=%s", asc[0].Title, desc[0].Title)
	}

	shuffled := []domain.Property{candidates[3], candidates[0], candidates[1], candidates[2], candidates[4]}
	reshuffled := Match(shuffled, FilterRequest{}, SortPriceLowHigh)
	if position(reshuffled, "Lake House") > position(reshuffled, "Harbor Loft") {
		t.Fatalf("stable sort must follow the new input order for ties")
	}
}

func TestAddingConstraintsNeverGrowsResult(t *testing.T) {
	candidates := catalog()
	steps := []FilterRequest{
		{},
		{DealType: DealBuy},
		{DealType: DealBuy, MinPrice: "200000"},
		{DealType: DealBuy, MinPrice: "200000", MinBeds: "3"},
		{DealType: DealBuy, MinPrice: "200000", MinBeds: "3", PropertyType: "house"},
		{DealType: DealBuy, MinPrice: "200000", MinBeds: "3", PropertyType: "house", HasParking: true},
	}

	previous := map[uuid.UUID]bool{}
	for _, p := range candidates {
		previous[p.ID] = true
	}
	for i, filter := range steps {
		got := Match(candidates, filter, SortDefault)
		current := map[uuid.UUID]bool{}
		for _, p := range got {
			if !previous[p.ID] {
				t.Fatalf("step %d introduced %s", i, p.Title)
			}
			current[p.ID] = true
		}
		previous = current
	}
	if len(previous) != 0 {
		t.Fatalf("expected final step to match nothing, got %d", len(previous))
	}
}

func TestInvertedRangeYieldsEmptyResult(t *testing.T) {
	candidates := []domain.Property{property("Middle", 300000, 1000)}
	got := Match(candidates, FilterRequest{MinPrice: "500000", MaxPrice: "100000"}, SortDefault)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", got)
	}
}

func TestAmenitySubstringMatch(t *testing.T) {
	p := property("Loft", 1, 1, func(p *domain.Property) {
		p.Amenities = []string{"Covered Parking", "WiFi"}
	})
	if !Build(FilterRequest{HasParking: true})(p) {
		t.Fatalf("expected parking flag to match Covered Parking")
	}
	if Build(FilterRequest{PetFriendly: true})(p) {
		t.Fatalf("expected pet flag not to match")
	}

	featured := property("Villa", 1, 1, func(p *domain.Property) {
		p.Features = []string{"Pet friendly garden"}
	})
	if !Build(FilterRequest{PetFriendly: true})(featured) {
		t.Fatalf("features take part in amenity matching")
	}
}

func TestMalformedNumbersAreIgnored(t *testing.T) {
	candidates := catalog()
	got := Match(candidates, FilterRequest{MinPrice: "cheap", MaxArea: "NaN", MinBeds: " "}, SortDefault)
	if len(got) != len(candidates) {
		t.Fatalf("expected malformed bounds to be skipped, got %d results", len(got))
	}
	if clauses := Clauses(FilterRequest{MinPrice: "cheap", DealType: "all", PropertyType: "All"}); len(clauses) != 0 {
		t.Fatalf("expected no clauses, got %d", len(clauses))
	}
}

func TestTextAndDealClauses(t *testing.T) {
	candidates := catalog()
	cases := []struct {
		name   string
		filter FilterRequest
		want   []string
	}{
		{name: "rent", filter: FilterRequest{DealType: DealRent}, want: []string{"Downtown Studio"}},
		{name: "keyword matches address", filter: FilterRequest{Keyword: "HILL villa street"}, want: []string{"Hill Villa"}},
		{name: "location matches city", filter: FilterRequest{Location: "shelby"}, want: []string{"Downtown Studio"}},
		{name: "type is case-insensitive", filter: FilterRequest{PropertyType: "VILLA"}, want: []string{"Hill Villa"}},
		{name: "area bounds inclusive", filter: FilterRequest{MinArea: "900", MaxArea: "1500"}, want: []string{"Harbor Loft", "Lake House"}},
		{name: "furnished", filter: FilterRequest{IsFurnished: true}, want: []string{"Downtown Studio"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Match(candidates, tc.filter, SortDefault)
			titles := make([]string, len(got))
			for i, p := range got {
				titles[i] = p.Title
			}
			if !reflect.DeepEqual(titles, tc.want) {
				t.Fatalf("got %v, want %v", titles, tc.want)
			}
		})
	}
}

func TestComputeRange(t *testing.T) {
	if got := ComputeRange(nil); got != (Range{}) {
		t.Fatalf("expected zero range, got %+v", got)
	}
	got := ComputeRange(catalog())
	want := Range{MinPrice: 1800, MaxPrice: 950000, MinArea: 450, MaxArea: 3200}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseSortKey(t *testing.T) {
	if ParseSortKey("priceHighLow") != SortPriceHighLow || ParseSortKey("newest") != SortDefault || ParseSortKey("") != SortDefault {
		t.Fatalf("unexpected sort key parsing")
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, info := Paginate(items, 2, 2)
	if !reflect.DeepEqual(page, []int{3, 4}) || info.TotalPages != 3 || info.Total != 5 {
		t.Fatalf("unexpected page %v info %+v", page, info)
	}

	page, _ = Paginate(items, 4, 2)
	if len(page) != 0 {
		t.Fatalf("expected empty page past the end, got %v", page)
	}

	page, info = Paginate(items, 0, 0)
	if len(page) != 5 || info.Page != 1 || info.TotalPages != 1 {
		t.Fatalf("expected everything on one page, got %v %+v", page, info)
	}

	empty, info := Paginate([]int{}, 1, 10)
	if len(empty) != 0 || info.TotalPages != 1 {
		t.Fatalf("unexpected empty pagination %v %+v", empty, info)
	}
}

func TestPaginateHugePageReturnsEmpty(t *testing.T) {
	page, info := Paginate([]int{1, 2, 3}, 1e17, 100)
	if len(page) != 0 {
		t.Fatalf("expected empty page, got %v", page)
	}
	if info.Page != 1e17 || info.Total != 3 || info.TotalPages != 1 {
		t.Fatalf("unexpected info %+v", info)
	}
}
