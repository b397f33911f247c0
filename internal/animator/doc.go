// Package animator implements a per-frame phase scheduler.
//
// Many independently written components share one scarce resource: a host
// primitive that calls back once, at approximately the next display refresh.
// Components never talk to the primitive themselves. Each one registers with
// an Animator and receives a Controller on which it raises or lowers its
// pending intents (measure, transition, animate, draw, redraw). The Animator
// keeps at most one request outstanding with the primitive and, when the frame
// arrives, runs every pending intent in a fixed phase order.
//
// FRAME PIPELINE:
//
//  1. The outstanding-request flag is cleared first, so anything requested
//     while the frame runs arms a new frame instead of being swallowed.
//  2. Measure: pending measures run, flag cleared.
//  3. Transition: runs only when the same controller has neither draw nor
//     redraw pending; otherwise it stays pending and another frame is armed.
//  4. Animate: runs and always arms another frame. The flag is never cleared
//     by the loop; continuous animation stops only on CancelAnimation.
//  5. Draw: pending draws run, flag cleared.
//  6. Redraw: pending redraws run, flag cleared.
//
// Later phases observe flag changes made by earlier phases in the same frame.
//
// CAPABILITIES:
//
// A component opts into a phase by implementing the matching interface
// (Measurer, Transitioner, Animatable, Drawer, Redrawer). The set is resolved
// once at Register and stored on the controller, so a request for a phase the
// component does not support fails with a CapabilityError without touching
// any scheduler state. Components may narrow their set by implementing
// Declarer; declaring a phase without implementing it fails registration.
//
// CONCURRENCY:
//
// An Animator is single-threaded and cooperative. The primitive is the only
// source of suspension; between the moment it invokes the frame body and the
// moment the body returns, everything runs synchronously on one goroutine.
// Callers on other goroutines must hop onto the host's goroutine first (see
// host.Loop.Submit). Re-entrant Request/Cancel/Register/Destroy calls from
// inside phase callbacks are supported.
//
// FAILURE:
//
// A component error aborts the remainder of the frame and is returned to the
// primitive wrapped in a ComponentError. Before the error leaves the frame
// body another frame is armed, so one failing component never stops
// scheduling for the rest.
package animator
