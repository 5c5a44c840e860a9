package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
)

// featureObject is one audio-features object keyed by field name. A nil
// object stands for a track the service has no analysis for.
type featureObject map[string]json.RawMessage

// value returns the named field as a float, or the missing marker when the
// field is absent, null, or not a number.
func (o featureObject) value(name string) float64 {
	raw, ok := o[name]
	if !ok {
		return domain.Missing()
	}
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return domain.Missing()
	}
	return *v
}

// vector projects the object onto columns.
func (o featureObject) vector(columns []string) domain.FeatureVector {
	if o == nil {
		return domain.MissingVector(len(columns))
	}
	v := make(domain.FeatureVector, len(columns))
	for i, name := range columns {
		v[i] = o.value(name)
	}
	return v
}

type payloadKind int

const (
	singlePayload payloadKind = iota
	batchPayload
)

// audioFeaturesPayload is the tagged union over the two response shapes:
// GET /audio-features/{id} answers with a bare object, GET /audio-features?ids=
// wraps a list (with null holes) under "audio_features".
type audioFeaturesPayload struct {
	kind   payloadKind
	single featureObject
	batch  []featureObject
}

func (p *audioFeaturesPayload) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	if raw, ok := probe["audio_features"]; ok {
		var batch []featureObject
		if err := json.Unmarshal(raw, &batch); err != nil {
			return fmt.Errorf("audio_features: %w", err)
		}
		p.kind = batchPayload
		p.batch = batch
		p.single = nil
		return nil
	}

	p.kind = singlePayload
	p.single = featureObject(probe)
	p.batch = nil
	return nil
}

// objects normalizes either shape into a list of per-track objects.
func (p audioFeaturesPayload) objects() []featureObject {
	if p.kind == batchPayload {
		return p.batch
	}
	return []featureObject{p.single}
}

// GetAudioFeatures returns one row per track id, in request order, with one
// column per requested feature. Tracks without analysis come back as
// all-missing rows; features a track lacks are missing cells.
func (c *Client) GetAudioFeatures(ctx context.Context, featureNames []string, trackIDs []string) (domain.FeatureTable, error) {
	if len(featureNames) == 0 {
		return domain.FeatureTable{}, fmt.Errorf("spotify adapter: %w: no feature names requested", domain.ErrInvalidArgument)
	}

	table := domain.NewFeatureTable(featureNames)
	for start := 0; start < len(trackIDs); start += maxFeatureIDs {
		end := min(start+maxFeatureIDs, len(trackIDs))
		chunk := trackIDs[start:end]

		objects, err := c.fetchFeatureObjects(ctx, chunk)
		if err != nil {
			return domain.FeatureTable{}, err
		}
		if len(objects) != len(chunk) {
			return domain.FeatureTable{}, fmt.Errorf("spotify adapter: %w: requested features for %d tracks, got %d", domain.ErrMalformedResponse, len(chunk), len(objects))
		}
		for i, obj := range objects {
			if err := table.Append(chunk[i], obj.vector(table.Columns)); err != nil {
				return domain.FeatureTable{}, err
			}
		}
	}

	return table, nil
}

func (c *Client) fetchFeatureObjects(ctx context.Context, ids []string) ([]featureObject, error) {
	var (
		resp *resty.Response
		err  error
	)
	if len(ids) == 1 {
		resp, err = c.get(ctx, "/audio-features/{id}", map[string]string{"id": ids[0]}, nil)
	} else {
		resp, err = c.get(ctx, "/audio-features", nil, map[string]string{"ids": strings.Join(ids, ",")})
	}
	if err != nil {
		return nil, err
	}

	// A single unknown id answers 404 with an error object; that track
	// simply has no features.
	if len(ids) == 1 && resp.StatusCode() == http.StatusNotFound {
		return []featureObject{nil}, nil
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("spotify adapter: %w: audio features status %d", domain.ErrMalformedResponse, resp.StatusCode())
	}

	var payload audioFeaturesPayload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("spotify adapter: %w: audio features decode: %v", domain.ErrMalformedResponse, err)
	}

	return payload.objects(), nil
}
