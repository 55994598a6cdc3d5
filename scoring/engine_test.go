package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botguard/botguard/detect"
	"github.com/botguard/botguard/scoring"
	"github.com/botguard/botguard/settings"
)

func TestNew_RejectsAllZeroWeights(t *testing.T) {
	t.Parallel()

	cfg := settings.Default()
	cfg.ScoringWeights = settings.ScoringWeights{}

	_, err := scoring.New(cfg)
	assert.ErrorIs(t, err, detect.ErrConfiguration)
}

func TestEngine_CleanRequestScoresLow(t *testing.T) {
	t.Parallel()

	engine, err := scoring.New(settings.Default())
	require.NoError(t, err)

	fp := detect.HTTPFingerprint{HeaderOrderScore: 1.0}
	behavior := detect.BehaviorMetrics{RequestInterval: 2000, TimingConsistency: 0.2, HumanLikeScore: 0.95}
	geo := detect.GeoLocation{Country: "US"}

	verdict := engine.Score(fp, behavior, geo, nil)
	assert.Zero(t, verdict.Score)
	assert.False(t, verdict.IsSuspicious)
	assert.Empty(t, verdict.Reasons)
}

func TestEngine_AutomationSignaturesDriveHighScore(t *testing.T) {
	t.Parallel()

	engine, err := scoring.New(settings.Default())
	require.NoError(t, err)

	fp := detect.HTTPFingerprint{AutomationSignatures: []string{"selenium"}, HeaderOrderScore: 1.0}
	behavior := detect.BehaviorMetrics{RequestInterval: 2000, TimingConsistency: 0.2, HumanLikeScore: 0.95}
	geo := detect.GeoLocation{Country: "US"}

	verdict := engine.Score(fp, behavior, geo, nil)
	assert.NotZero(t, verdict.Score)
	require.NotEmpty(t, verdict.Reasons)
	assert.Equal(t, detect.CategoryFingerprint, verdict.Reasons[0].Category)
	assert.Equal(t, detect.SeverityHigh, verdict.Reasons[0].Severity)
}

func TestEngine_NonLinearEscalationAboveSixty(t *testing.T) {
	t.Parallel()

	cfg := settings.Default()
	cfg.ScoringWeights = settings.ScoringWeights{Fingerprint: 1, Behavioral: 0, Geographic: 0, Reputation: 0}
	engine, err := scoring.New(cfg)
	require.NoError(t, err)

	// A raw fingerprint score of 80 (automation signature alone) should
	// escalate past 60: final = 60 + (80-60)*1.3 = 86.
	fp := detect.HTTPFingerprint{AutomationSignatures: []string{"selenium"}, HeaderOrderScore: 1.0}
	verdict := engine.Score(fp, detect.BehaviorMetrics{HumanLikeScore: 1}, detect.GeoLocation{}, nil)
	assert.Equal(t, 86, verdict.Score)
	assert.True(t, verdict.IsHighRisk)
}

func TestEngine_TorGeoMaxesOutGeographicCategory(t *testing.T) {
	t.Parallel()

	cfg := settings.Default()
	cfg.ScoringWeights = settings.ScoringWeights{Fingerprint: 0, Behavioral: 0, Geographic: 1, Reputation: 0}
	engine, err := scoring.New(cfg)
	require.NoError(t, err)

	geo := detect.GeoLocation{IsTor: true, Country: "CN"}
	verdict := engine.Score(detect.HTTPFingerprint{HeaderOrderScore: 1}, detect.BehaviorMetrics{HumanLikeScore: 1}, geo, nil)
	// raw = 70 (40 tor + 30 high-risk country), escalated: 60+(70-60)*1.3=73
	assert.Equal(t, 73, verdict.Score)
}

func TestEngine_ReputationCategoryOnlyAppliesAboveFloor(t *testing.T) {
	t.Parallel()

	cfg := settings.Default()
	cfg.ScoringWeights = settings.ScoringWeights{Fingerprint: 0, Behavioral: 0, Geographic: 0, Reputation: 1}
	engine, err := scoring.New(cfg)
	require.NoError(t, err)

	low := 10
	verdict := engine.Score(detect.HTTPFingerprint{HeaderOrderScore: 1}, detect.BehaviorMetrics{HumanLikeScore: 1}, detect.GeoLocation{}, &low)
	assert.Zero(t, verdict.Score)

	high := 80
	verdict = engine.Score(detect.HTTPFingerprint{HeaderOrderScore: 1}, detect.BehaviorMetrics{HumanLikeScore: 1}, detect.GeoLocation{}, &high)
	// raw = 80, escalated: 60 + (80-60)*1.3 = 86
	assert.Equal(t, 86, verdict.Score)
	require.Len(t, verdict.Reasons, 1)
	assert.Equal(t, detect.SeverityHigh, verdict.Reasons[0].Severity)
}

func TestEngine_ConfidenceBonusForReputationSupplied(t *testing.T) {
	t.Parallel()

	engine, err := scoring.New(settings.Default())
	require.NoError(t, err)

	rep := 50
	withRep := engine.Score(detect.HTTPFingerprint{HeaderOrderScore: 1}, detect.BehaviorMetrics{HumanLikeScore: 1}, detect.GeoLocation{}, &rep)
	withoutRep := engine.Score(detect.HTTPFingerprint{HeaderOrderScore: 1}, detect.BehaviorMetrics{HumanLikeScore: 1}, detect.GeoLocation{}, nil)

	assert.Greater(t, withRep.Confidence, withoutRep.Confidence)
}

func TestEngine_ConfidencePenalizedWhenCategoriesDisagree(t *testing.T) {
	t.Parallel()

	engine, err := scoring.New(settings.Default())
	require.NoError(t, err)

	fp := detect.HTTPFingerprint{AutomationSignatures: []string{"selenium"}, HeaderOrderScore: 1.0}
	behavior := detect.BehaviorMetrics{RequestInterval: 2000, TimingConsistency: 0.2, HumanLikeScore: 0.95}
	geo := detect.GeoLocation{}

	verdict := engine.Score(fp, behavior, geo, nil)
	assert.Less(t, verdict.Confidence, 0.6)
}

func TestEngine_FingerprintIdentityIsDeterministic(t *testing.T) {
	t.Parallel()

	engine, err := scoring.New(settings.Default())
	require.NoError(t, err)

	fp := detect.HTTPFingerprint{HeaderSignature: "abc123", HeaderOrderScore: 1}
	geo := detect.GeoLocation{Country: "US", ASN: "AS15169"}
	behavior := detect.BehaviorMetrics{HumanLikeScore: 0.8765}

	a := engine.Score(fp, behavior, geo, nil)
	b := engine.Score(fp, behavior, geo, nil)
	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.Equal(t, "abc123:US:AS15169:88", a.Fingerprint)
}

func TestEngine_SensitivePathNavigationAddsBehavioralReason(t *testing.T) {
	t.Parallel()

	engine, err := scoring.New(settings.Default())
	require.NoError(t, err)

	behavior := detect.BehaviorMetrics{
		RequestInterval:   2000,
		TimingConsistency: 0.2,
		HumanLikeScore:    0.95,
		NavigationPattern: []string{"GET:/", "GET:/wp-admin/login.php"},
	}
	verdict := engine.Score(detect.HTTPFingerprint{HeaderOrderScore: 1}, behavior, detect.GeoLocation{}, nil)
	require.NotEmpty(t, verdict.Reasons)
	assert.Equal(t, detect.CategoryBehavioral, verdict.Reasons[0].Category)
}
