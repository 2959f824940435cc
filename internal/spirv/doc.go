// Package spirv provides minimal SPIR-V introspection and rewriting for
// compute shaders.
//
// The package covers exactly what a pipeline cache needs from bytecode:
// reflecting descriptor bindings, push-constant and specialization
// counts ([Reflect]), baking the workgroup shape into a module
// ([SpecializeWorkgroupSize]), and substituting specialization-constant
// values for backends whose pipeline creation cannot ([Specialize]).
// It is not a general SPIR-V toolkit: instructions outside that scope
// pass through untouched.
package spirv
