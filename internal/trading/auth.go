// Package trading provides the decision-gating pipeline that converts
// market observations into authenticated trade instructions.
package trading

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"condor-trader/internal/analysis/coherence"
	"condor-trader/internal/analysis/indicators"
	"condor-trader/internal/analysis/stats"
	"condor-trader/internal/config"
	"condor-trader/internal/errors"
	"condor-trader/internal/identity"
	"condor-trader/internal/models"
	"condor-trader/internal/regime"
	"condor-trader/internal/sizing"
	"condor-trader/internal/timing"
	"condor-trader/internal/volatility"
)

// Rejection reason codes. Every ordinary rejection carries one.
const (
	ReasonRegimePause       = "regime-pause"
	ReasonRegimeWait        = "regime-wait"
	ReasonLowCoherence      = "low-coherence"
	ReasonVIXSpike          = "vix-spike"
	ReasonInsufficientVIX   = "insufficient-vix-history"
	ReasonNotCalm           = "not-calm"
	ReasonInsufficientBars  = "insufficient-bar-history"
	ReasonNoViableStructure = "no-viable-structure"
	ReasonIdentityDrift     = "identity-drift"
	ReasonLowEnsemble       = "low-ensemble"
)

// Weights holds the ensemble weights for the named checks. Identity is
// weighted highest.
type Weights struct {
	Regime    float64
	Coherence float64
	VIX       float64
	ATR       float64
	Identity  float64
	Timing    float64
}

// DefaultWeights returns the default ensemble weights.
func DefaultWeights() Weights {
	return Weights{
		Regime:    0.15,
		Coherence: 0.20,
		VIX:       0.15,
		ATR:       0.10,
		Identity:  0.30,
		Timing:    0.10,
	}
}

func (w Weights) total() float64 {
	return w.Regime + w.Coherence + w.VIX + w.ATR + w.Identity + w.Timing
}

// Outcome is the terminal state of one evaluation tick: either
// authenticated with a proposal, or rejected with a reason code.
type Outcome struct {
	Authenticated bool
	Reason        string
	Regime        models.Regime
	Strategy      models.Strategy
	Coherence     coherence.Score
	Volatility    volatility.Reading
	Timing        timing.Decision
	Identity      identity.Report
	EnsembleScore float64
	Proposal      *models.TradeProposal
	Timestamp     time.Time
}

// Authenticator runs the sequential gate chain and owns no rolling state
// of its own; the trackers it coordinates (statistics, volatility) carry
// the only state that survives across ticks.
type Authenticator struct {
	classifier *regime.Classifier
	scorer     *coherence.Scorer
	tracker    *stats.Tracker
	monitor    *volatility.Monitor
	filter     *timing.Filter
	sizer      *sizing.Sizer
	validator  *identity.Validator
	tactics    regime.TacticsTable
	weights    Weights

	capital       float64
	riskFraction  float64
	coherencePass float64
	ensemblePass  float64
	condorParams  CondorParams
	expiryWeekday time.Weekday

	logger zerolog.Logger
}

// NewAuthenticator wires the pipeline components from configuration.
func NewAuthenticator(cfg *config.Config, logger zerolog.Logger) (*Authenticator, error) {
	weekday, err := config.ParseWeekday(cfg.Identity.ExpiryWeekday)
	if err != nil {
		return nil, err
	}

	tracker := stats.NewTracker(cfg.Pipeline.MemoryDepth)

	return &Authenticator{
		classifier: regime.NewClassifier(regime.Config{
			SlopeThreshold:   cfg.Pipeline.SlopeThreshold,
			VIXCalmThreshold: cfg.Pipeline.VIXCalmThreshold,
			VIXHighThreshold: cfg.Pipeline.VIXHighThreshold,
		}),
		scorer:  coherence.NewScorer(tracker),
		tracker: tracker,
		monitor: volatility.NewMonitor(volatility.Config{
			ModerateThreshold: cfg.Pipeline.VIXCalmThreshold,
			HighThreshold:     cfg.Pipeline.VIXHighThreshold,
			SpikeDelta:        cfg.Pipeline.FearSpikeDelta,
		}),
		filter: timing.NewFilter(cfg.Pipeline.ATRPeriod, cfg.Pipeline.ATRContraction),
		sizer: sizing.NewSizer(sizing.Config{
			BaseVIX:       cfg.Pipeline.BaseVIX,
			MultiplierMin: cfg.Pipeline.SizeMultiplierMin,
			MultiplierMax: cfg.Pipeline.SizeMultiplierMax,
		}),
		validator: identity.NewValidator(identity.CoreIdentity{
			MaxRiskFraction:   cfg.Identity.MaxRiskFraction,
			ExpiryWeekday:     weekday,
			MaxOpenPositions:  cfg.Identity.MaxOpenPositions,
			StopLossMandatory: cfg.Identity.StopLossMandatory,
		}, cfg.Pipeline.DriftThreshold),
		tactics: regime.DefaultTactics(),
		weights: DefaultWeights(),

		capital:       cfg.Trading.Capital,
		riskFraction:  cfg.Pipeline.RiskFraction,
		coherencePass: cfg.Pipeline.CoherencePass,
		ensemblePass:  cfg.Pipeline.EnsemblePass,
		condorParams: CondorParams{
			StrikeStep:     cfg.Condor.StrikeStep,
			WingWidth:      cfg.Condor.WingWidth,
			TargetDistance: cfg.Condor.TargetDistance,
			MinOTMDistance: cfg.Condor.MinOTMDistance,
			MaxOTMDistance: cfg.Condor.MaxOTMDistance,
			MinCredit:      cfg.Condor.MinCredit,
			LotSize:        cfg.Trading.LotSize,
			RiskFreeRate:   cfg.Trading.RiskFreeRate,
		},
		expiryWeekday: weekday,
		logger:        logger,
	}, nil
}

// Tracker returns the trade-history tracker so the driving loop can feed
// closed trades back into it.
func (a *Authenticator) Tracker() *stats.Tracker {
	return a.tracker
}

// RecordTrade feeds a closed trade into the history window.
func (a *Authenticator) RecordTrade(record models.TradeRecord) {
	a.tracker.Add(record)
}

// ObserveVIX feeds a VIX reading into the shift monitor without running
// the gate chain. Used to warm history before a one-shot evaluation.
func (a *Authenticator) ObserveVIX(vix float64, at time.Time) {
	a.monitor.Analyze(vix, at)
}

// Evaluate runs one tick of the gate chain. Ordinary "don't trade"
// outcomes come back as a rejected Outcome; only malformed snapshots
// return an error.
func (a *Authenticator) Evaluate(snapshot *models.MarketSnapshot, observed identity.ObservedBehavior) (Outcome, error) {
	if err := validateSnapshot(snapshot); err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Timestamp: snapshot.Timestamp}

	// Step 1: regime classification. Volatile regimes pause trading.
	outcome.Regime = a.classifier.Classify(snapshot)
	outcome.Strategy = regime.PreferredStrategy(outcome.Regime)
	switch outcome.Strategy {
	case models.StrategyPause:
		return a.reject(outcome, ReasonRegimePause), nil
	case models.StrategyWait:
		return a.reject(outcome, ReasonRegimeWait), nil
	}

	// Step 2: coherence against the current regime.
	outcome.Coherence = a.scorer.Score(outcome.Regime)
	if outcome.Coherence.Adjusted < a.coherencePass {
		return a.reject(outcome, ReasonLowCoherence), nil
	}

	// Step 3: volatility shift. A fear spike is an absolute veto.
	outcome.Volatility = a.monitor.Analyze(snapshot.VIX, snapshot.Timestamp)
	if outcome.Volatility.Insufficient() {
		return a.reject(outcome, ReasonInsufficientVIX), nil
	}
	if outcome.Volatility.Change == volatility.ChangeFearSpike {
		return a.reject(outcome, ReasonVIXSpike), nil
	}

	// Step 4: entry timing.
	outcome.Timing = a.filter.AllowEntry(snapshot)
	if !outcome.Timing.Allow {
		if outcome.Timing.Insufficient() {
			return a.reject(outcome, ReasonInsufficientBars), nil
		}
		return a.reject(outcome, ReasonNotCalm), nil
	}

	// Step 5: construct the proposal from regime tactics.
	tactics := a.tactics.For(outcome.Regime)
	proposal := a.buildProposal(snapshot, tactics)
	if proposal == nil {
		return a.reject(outcome, ReasonNoViableStructure), nil
	}

	// Step 6: position sizing against the structure's worst case.
	lots := a.sizer.Lots(a.capital, a.riskFraction, snapshot.VIX, proposal.MaxLoss)
	if tactics.SizeMultiplier > 0 && tactics.SizeMultiplier < 1 {
		scaled := int(math.Round(float64(lots) * tactics.SizeMultiplier))
		if scaled < 1 {
			scaled = 1
		}
		lots = scaled
	}
	proposal.Lots = lots
	proposal.NetCredit *= float64(lots)
	proposal.MaxProfit *= float64(lots)
	proposal.MaxLoss *= float64(lots)

	// Step 7: identity guardrails. Drift is an absolute veto and is
	// surfaced at escalated severity.
	outcome.Identity = a.validator.Validate(observed)
	if outcome.Identity.Drifted() {
		a.logViolation(outcome.Identity)
		return a.reject(outcome, ReasonIdentityDrift), nil
	}

	// Step 8: weighted ensemble. Vetoes cannot be outvoted; by this
	// point neither veto has triggered, so only the score remains.
	outcome.EnsembleScore = a.ensembleScore(outcome)
	if outcome.EnsembleScore < a.ensemblePass {
		return a.reject(outcome, ReasonLowEnsemble), nil
	}

	outcome.Authenticated = true
	outcome.Proposal = proposal
	a.logger.Info().
		Str("strategy", string(proposal.Strategy)).
		Str("regime", string(outcome.Regime)).
		Int("lots", proposal.Lots).
		Float64("ensemble", outcome.EnsembleScore).
		Msg("Trade authenticated")
	return outcome, nil
}

func (a *Authenticator) buildProposal(snapshot *models.MarketSnapshot, tactics regime.Tactics) *models.TradeProposal {
	expiry := NextExpiry(snapshot.Timestamp, a.expiryWeekday)

	switch tactics.Strategy {
	case models.StrategyIronCondor:
		return BuildIronCondor(snapshot, a.condorParams, expiry, tactics.StrikeOffsetPoints)
	case models.StrategyCreditSpread:
		trendUp := indicators.Slope(snapshot.PriceHistory, regime.SlopeLookback) > 0
		return BuildCreditSpread(snapshot, a.condorParams, expiry, tactics.StrikeOffsetPoints, trendUp)
	default:
		return nil
	}
}

// ensembleScore combines the graded component scores. Gates that
// short-circuit on failure contribute their pass-through grade here.
func (a *Authenticator) ensembleScore(o Outcome) float64 {
	w := a.weights

	regimeScore := coherence.MultiplierFor(o.Regime)
	coherenceScore := o.Coherence.Adjusted

	var vixScore float64
	switch o.Volatility.Level {
	case volatility.LevelLow:
		vixScore = 1.0
	case volatility.LevelModerate:
		vixScore = 0.7
	default:
		vixScore = 0.3
	}
	if o.Volatility.Change == volatility.ChangeFearSubsiding {
		// Subsiding fear is calmer than the level alone suggests.
		vixScore = math.Min(1.0, vixScore+0.1)
	}

	atrScore := 1.0 - o.Timing.Normalized
	if atrScore < 0 {
		atrScore = 0
	}

	identityScore := 1.0 - o.Identity.DriftRatio
	timingScore := 0.0
	if o.Timing.Allow {
		timingScore = 1.0
	}

	total := w.Regime*regimeScore +
		w.Coherence*coherenceScore +
		w.VIX*vixScore +
		w.ATR*atrScore +
		w.Identity*identityScore +
		w.Timing*timingScore

	return total / w.total()
}

func (a *Authenticator) reject(outcome Outcome, reason string) Outcome {
	outcome.Authenticated = false
	outcome.Reason = reason
	a.logger.Debug().
		Str("reason", reason).
		Str("regime", string(outcome.Regime)).
		Msg("Tick rejected")
	return outcome
}

func (a *Authenticator) logViolation(report identity.Report) {
	a.logger.Error().
		Strs("violations", report.Violations).
		Float64("drift_ratio", report.DriftRatio).
		Msg("Core identity drift detected")
}

// validateSnapshot rejects malformed input loudly, distinct from
// ordinary rejections.
func validateSnapshot(s *models.MarketSnapshot) error {
	if s == nil {
		return errors.NewSnapshotError("snapshot", nil, "missing")
	}
	if s.Spot <= 0 || math.IsNaN(s.Spot) || math.IsInf(s.Spot, 0) {
		return errors.NewSnapshotError("spot", s.Spot, "must be a positive finite number")
	}
	if s.IV < 0 || math.IsNaN(s.IV) || math.IsInf(s.IV, 0) {
		return errors.NewSnapshotError("iv", s.IV, "must be a non-negative finite number")
	}
	if s.VIX < 0 || math.IsNaN(s.VIX) || math.IsInf(s.VIX, 0) {
		return errors.NewSnapshotError("vix", s.VIX, "must be a non-negative finite number")
	}
	if s.Timestamp.IsZero() {
		return errors.NewSnapshotError("timestamp", s.Timestamp, "missing")
	}
	for i, p := range s.PriceHistory {
		if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
			return errors.NewSnapshotError("price_history", i, "contains a non-positive or non-finite price")
		}
	}
	return nil
}
