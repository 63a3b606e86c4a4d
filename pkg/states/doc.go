/*
Package states provides reference implementations of domain.State.

  - Toggle: activates a set of resources (visual elements, input layers) while it
    is on top of the stack and deactivates them when displaced or popped.
  - Mode: a named state that only logs its lifecycle.
  - Recorder: counts and journals hook calls; handy in tests.

RegisterBuiltins makes Mode and Toggle available to a registry.Registry under the
names "mode" and "toggle", which is how scenario files refer to them.
*/
package states
