package score

import (
	"fmt"

	"github.com/ppiankov/relcorpus/internal/model"
)

// Thresholds for corpus health signals
const (
	spanLossWarning   = 0.10 // Share of input records dropped for missing spans
	spanLossCritical  = 0.30
	unknownWarning    = 0.10 // Share of span-complete records with unknown labels
	unknownCritical   = 0.30
	imbalanceWarning  = 0.50 // Share of accepted records held by one relation
	imbalanceCritical = 0.80
)

// Scorer derives diagnostic signals from a consolidation report
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate returns the signals for r. Signals describe the corpus and
// never change its content.
func (s *Scorer) Calculate(r *model.Report) []model.Signal {
	var signals []model.Signal

	if sig, ok := s.spanLoss(r); ok {
		signals = append(signals, sig)
	}
	if sig, ok := s.unknownRelations(r); ok {
		signals = append(signals, sig)
	}
	if sig, ok := s.unusedRelations(r); ok {
		signals = append(signals, sig)
	}
	if sig, ok := s.classImbalance(r); ok {
		signals = append(signals, sig)
	}
	signals = append(signals, s.smallSplits(r)...)

	return signals
}

func (s *Scorer) spanLoss(r *model.Report) (model.Signal, bool) {
	if r.DroppedMissingSpan == 0 || r.InputRecords == 0 {
		return model.Signal{}, false
	}

	ratio := float64(r.DroppedMissingSpan) / float64(r.InputRecords)
	return model.Signal{
		Type:        model.SignalSpanLoss,
		Severity:    severityFor(ratio, spanLossWarning, spanLossCritical),
		Description: fmt.Sprintf("%d of %d records dropped: mention not found in sentence (%.0f%%)", r.DroppedMissingSpan, r.InputRecords, ratio*100),
		Data: map[string]interface{}{
			"dropped": r.DroppedMissingSpan,
			"input":   r.InputRecords,
			"ratio":   ratio,
		},
	}, true
}

func (s *Scorer) unknownRelations(r *model.Report) (model.Signal, bool) {
	if r.Rejected == 0 {
		return model.Signal{}, false
	}

	total := r.Accepted + r.Rejected
	ratio := float64(r.Rejected) / float64(total)
	data := map[string]interface{}{
		"rejected": r.Rejected,
		"distinct": len(r.UnknownRelations),
		"ratio":    ratio,
	}
	if len(r.UnknownRelations) > 0 {
		data["most_frequent"] = r.UnknownRelations[0].Relation
	}

	return model.Signal{
		Type:        model.SignalUnknownRelations,
		Severity:    severityFor(ratio, unknownWarning, unknownCritical),
		Description: fmt.Sprintf("%d records labeled with %d relations outside the vocabulary", r.Rejected, len(r.UnknownRelations)),
		Data:        data,
	}, true
}

func (s *Scorer) unusedRelations(r *model.Report) (model.Signal, bool) {
	var unused []string
	for _, rc := range r.Distribution {
		if rc.Count == 0 {
			unused = append(unused, rc.Relation)
		}
	}
	if len(unused) == 0 {
		return model.Signal{}, false
	}

	severity := model.SeverityInfo
	if len(unused) == len(r.Distribution) {
		severity = model.SeverityCritical
	} else if len(unused)*2 > len(r.Distribution) {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalUnusedRelations,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d vocabulary relations have no accepted records", len(unused), len(r.Distribution)),
		Data: map[string]interface{}{
			"relations": unused,
		},
	}, true
}

func (s *Scorer) classImbalance(r *model.Report) (model.Signal, bool) {
	if r.Accepted == 0 || len(r.Distribution) < 2 {
		return model.Signal{}, false
	}

	top := r.Distribution[0]
	for _, rc := range r.Distribution[1:] {
		if rc.Count > top.Count {
			top = rc
		}
	}

	share := float64(top.Count) / float64(r.Accepted)
	if share < imbalanceWarning {
		return model.Signal{}, false
	}

	return model.Signal{
		Type:        model.SignalClassImbalance,
		Severity:    severityFor(share, imbalanceWarning, imbalanceCritical),
		Description: fmt.Sprintf("%s holds %.0f%% of accepted records", top.Relation, share*100),
		Data: map[string]interface{}{
			"relation": top.Relation,
			"count":    top.Count,
			"share":    share,
		},
	}, true
}

func (s *Scorer) smallSplits(r *model.Report) []model.Signal {
	var signals []model.Signal
	parts := []struct {
		name  string
		ratio float64
		count int
	}{
		{"train", r.Ratios.Train, r.Split.Train},
		{"val", r.Ratios.Val, r.Split.Val},
		{"test", r.Ratios.Test, r.Split.Test},
	}

	for _, p := range parts {
		// Only partitions that were asked for
		if p.ratio <= 0 || p.count > 0 {
			continue
		}
		severity := model.SeverityWarning
		if p.name == "train" {
			severity = model.SeverityCritical
		}
		signals = append(signals, model.Signal{
			Type:        model.SignalSmallSplit,
			Severity:    severity,
			Description: fmt.Sprintf("%s split is empty (ratio %.2f of %d records)", p.name, p.ratio, r.Split.Total()),
			Data: map[string]interface{}{
				"split": p.name,
				"ratio": p.ratio,
				"total": r.Split.Total(),
			},
		})
	}
	return signals
}

func severityFor(value, warning, critical float64) model.SignalSeverity {
	switch {
	case value >= critical:
		return model.SeverityCritical
	case value >= warning:
		return model.SeverityWarning
	default:
		return model.SeverityInfo
	}
}
