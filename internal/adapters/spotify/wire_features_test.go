package spotify

import (
	"encoding/json"
	"math"
	"testing"
)

func TestAudioFeaturesPayload_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind payloadKind
		wantLen  int
		wantNil  []bool
	}{
		{
			name:     "bare object is a single payload",
			body:     `{"id": "t1", "energy": 0.4}`,
			wantKind: singlePayload,
			wantLen:  1,
			wantNil:  []bool{false},
		},
		{
			name:     "wrapped list is a batch payload",
			body:     `{"audio_features": [{"energy": 0.4}, null]}`,
			wantKind: batchPayload,
			wantLen:  2,
			wantNil:  []bool{false, true},
		},
		{
			name:     "null body is a single missing track",
			body:     `null`,
			wantKind: singlePayload,
			wantLen:  1,
			wantNil:  []bool{true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p audioFeaturesPayload
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if p.kind != tt.wantKind {
				t.Fatalf("kind: got %v, want %v", p.kind, tt.wantKind)
			}
			objs := p.objects()
			if len(objs) != tt.wantLen {
				t.Fatalf("objects: got %d, want %d", len(objs), tt.wantLen)
			}
			for i, wantNil := range tt.wantNil {
				if (objs[i] == nil) != wantNil {
					t.Errorf("object %d nil: got %v, want %v", i, objs[i] == nil, wantNil)
				}
			}
		})
	}
}

func TestAudioFeaturesPayload_RejectsBadBatch(t *testing.T) {
	var p audioFeaturesPayload
	if err := json.Unmarshal([]byte(`{"audio_features": "nope"}`), &p); err == nil {
		t.Fatalf("expected error for non-list audio_features")
	}
}

func TestFeatureObject_Vector(t *testing.T) {
	var obj featureObject
	if err := json.Unmarshal([]byte(`{"key": 5, "mode": null, "type": "audio_features", "tempo": 98.2}`), &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := obj.vector([]string{"key", "mode", "type", "tempo", "valence"})
	want := []float64{5, math.NaN(), math.NaN(), 98.2, math.NaN()}
	for i := range want {
		if math.IsNaN(want[i]) {
			if !math.IsNaN(got[i]) {
				t.Errorf("cell %d: got %v, want missing", i, got[i])
			}
			continue
		}
		if got[i] != want[i] {
			t.Errorf("cell %d: got %v, want %v", i, got[i], want[i])
		}
	}

	if v := featureObject(nil).vector([]string{"a", "b"}); len(v) != 2 || !math.IsNaN(v[0]) || !math.IsNaN(v[1]) {
		t.Errorf("nil object: got %v, want two missing cells", v)
	}
}
