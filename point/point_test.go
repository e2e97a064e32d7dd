package point

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{Waypoint: "waypoint", Trackpoint: "trackpoint", Routepoint: "routepoint"} {
		if k.String() != want {
			t.Errorf("%d: got %q", k, k.String())
		}
	}
	if got := Kind(7).String(); got != "Kind(7)" {
		t.Errorf("unknown kind: got %q", got)
	}
}

func TestRecordMarshalJSON_Flat(t *testing.T) {
	b, _ := testBuilder(FailFast)
	r, err := b.Build(Waypoint, 34.6195, -117.8319, map[string]*string{"name": str("Trailhead"), "cmt": nil})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]any{
		"gpxpoint":  "waypoint",
		"latitude":  34.6195,
		"longitude": -117.8319,
		"mgrs":      r.MGRS(),
		"name":      "Trailhead",
		"cmt":       nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("json (-want +got):\n%s", diff)
	}
}
