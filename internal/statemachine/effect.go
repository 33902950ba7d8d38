package statemachine

// EffectKind tags one-shot side effects emitted by the machine. Effects are
// not part of state: each is delivered exactly once and not replayed.
type EffectKind string

const (
	EffectNavigateToMain       EffectKind = "NAVIGATE_TO_MAIN"
	EffectNavigateToOnboarding EffectKind = "NAVIGATE_TO_ONBOARDING"
	EffectShowError            EffectKind = "SHOW_ERROR"
)

// Effect is a one-shot instruction for the UI layer.
type Effect struct {
	Kind    EffectKind
	Message string // ShowError only
}
