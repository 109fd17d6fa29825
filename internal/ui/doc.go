// Package ui holds the per-app screen stack that apps build their interface
// from. A Session owns an ordered stack of screens; only the top one renders,
// receives button presses and ticks.
//
// Lifecycle:
//   - NewSessionApp wraps a setup function into an api.Descriptor. Setup runs
//     lazily on the first OnEnter, after the host has made the app active, so
//     apps that are never opened cost nothing.
//   - OnEnter renders the top screen and starts the tick timer if that screen
//     asks for ticks. OnLeave stops the timer, as does OnTeardown before
//     running the app's own Teardown hook.
//
// Screen changes:
//   - Push, Pop and Replace re-render and re-evaluate the tick rate. The
//     NoRender variants let callers finish configuring a screen first; the
//     tick rate is still refreshed because the top screen changed.
//
// Ticking:
//   - The session keeps at most one repeating host timer. Its interval is
//     derived from the top screen's NeedsTicksPerSecond and is rescheduled only
//     when that rate changes. A rate of zero cancels the timer.
//
// The screens themselves live in internal/ui/screen, the actions menus are
// built from in internal/ui/action, and the pure focus and scroll arithmetic
// in internal/ui/state.
package ui
