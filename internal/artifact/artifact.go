package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Artifact is one immutable trained-model snapshot: the algorithm tag,
// the ordered feature schema it was trained against, and the opaque
// trained parameters. Retraining produces a new artifact, never an edit
// of an existing one.
type Artifact struct {
	Version      string          `json:"version"`
	Algorithm    string          `json:"algorithm"`
	FeatureNames []string        `json:"feature_names"`
	TrainedAt    time.Time       `json:"trained_at"`
	Training     *TrainingInfo   `json:"training,omitempty"`
	Params       json.RawMessage `json:"params"`
}

// TrainingInfo records how the params were produced. Informational only:
// it is excluded from the content version alongside TrainedAt.
type TrainingInfo struct {
	Samples   int     `json:"samples"`
	Positives int     `json:"positives"`
	Seed      int64   `json:"seed"`
	Accuracy  float64 `json:"accuracy,omitempty"`
}

// New packs trained parameters into an artifact. The version is derived
// from the content, so identical training runs produce identical versions
// and a retrain with changed parameters can never collide with an old
// version.
func New(algorithm string, featureNames []string, trainedAt time.Time, params any) (*Artifact, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode model params: %w", err)
	}
	a := &Artifact{
		Algorithm:    algorithm,
		FeatureNames: featureNames,
		TrainedAt:    trainedAt,
		Params:       raw,
	}
	a.Version = a.contentVersion()
	return a, nil
}

// contentVersion hashes everything that affects inference. TrainedAt is
// deliberately excluded: retraining on the same corpus with the same
// options yields the same version.
func (a *Artifact) contentVersion() string {
	h := sha256.New()
	h.Write([]byte(a.Algorithm))
	for _, name := range a.FeatureNames {
		h.Write([]byte{0})
		h.Write([]byte(name))
	}
	h.Write([]byte{0})
	h.Write(a.Params)
	return a.Algorithm + "-" + hex.EncodeToString(h.Sum(nil))[:10]
}

// Validate checks an artifact is complete enough to serve.
func (a *Artifact) Validate() error {
	if a.Version == "" {
		return fmt.Errorf("artifact has no version")
	}
	if a.Algorithm == "" {
		return fmt.Errorf("artifact has no algorithm")
	}
	if len(a.FeatureNames) == 0 {
		return fmt.Errorf("artifact has no feature schema")
	}
	if len(a.Params) == 0 {
		return fmt.Errorf("artifact has no trained params")
	}
	return nil
}

// DecodeParams unmarshals the trained parameters into out.
func (a *Artifact) DecodeParams(out any) error {
	if err := json.Unmarshal(a.Params, out); err != nil {
		return fmt.Errorf("failed to decode %s params: %w", a.Algorithm, err)
	}
	return nil
}
