// Package harness runs scripted animator scenarios and checks their traces.
//
// A scenario is a YAML document naming components (with the phases they opt
// into and behaviors they perform from inside those phases), steps executed
// between frames, and assertions on the resulting trace and final state:
//
//	name: transition_deferred
//	description: A pending draw pushes the transition to the next frame
//	components:
//	  - name: box
//	    capabilities: [transition, draw]
//	steps:
//	  - action: request
//	    component: box
//	    phase: transition
//	  - action: request
//	    component: box
//	    phase: draw
//	  - action: frame
//	    count: 2
//	assertions:
//	  - type: trace_order
//	    events: [box.draw, box.transition]
//
// Documents are decoded strictly with gopkg.in/yaml.v3 and validated against
// an embedded CUE schema before cross-references are checked.
//
// Each run uses a fresh Animator over a testutil.ManualPrimitive with
// timestamps from a testutil.StepClock, so traces are deterministic and can
// be compared against golden files with RunWithGolden.
package harness
