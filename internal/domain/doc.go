// Package domain models residential solar survey data.
//
// # Inputs
//
// The collector assembles one [Lookup] per candidate address: the address
// itself, coordinates, an optional owner payload, an optional solar payload,
// and the relative path of a downloaded aerial image (empty when imagery was
// unavailable). Either payload may be absent when the provider lookup failed
// or the location simply has no coverage. Absence is a data gap, not an error.
//
// # Record building
//
// [BuildRecord] turns a Lookup into a [PropertyRecord] deterministically:
//
//	owner_name             payload value, else "Unknown"
//	house_image_path       passthrough; never blocks emission
//	has_solar_panels       from the solar payload, false without coverage
//	estimated_panel_count  clamped to >= 0; 0 without panels
//	system_size_kw         clamped to >= 0; 0 without panels
//	installation_year      kept only within [2000, current year], else null
//	solar_potential_score  always populated, see below
//	roi_percentage         derived from system size, 0 without a system
//
// Every record satisfies: no panels implies zero panel count, zero system
// size, and a null installation year.
//
// # Potential score
//
// The score is a 0-100 suitability estimate. Provider-reported scores are
// clamped into range. A confirmed installation without a reported score gets
// 100. Without any coverage the score is synthesized from a SHA-256 hash of
// the normalized address, landing in [40, 75]: reproducible across runs on
// the same input, and varied enough that synthetic records don't all carry
// the same value.
//
// # ROI
//
// roi_percentage is the share of installed cost recovered over a 20-year
// horizon under fixed assumptions ($3000/kW installed, 1400 kWh/kW/yr yield,
// $0.14/kWh). It is an indicative figure for ranking, not a quote.
package domain
