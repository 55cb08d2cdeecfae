// Package resolver expands parameter templates of a block into generated text.
//
// Each parameter reaches a template as an Arg, a value with three explicit
// accessors: its code text, an opt of its selected enum option, and its
// evaluated native value. The HCL engine picks the accessor from the shape of
// each interpolation:
//
//	${samp_rate}     code text
//	${type.fcn}      opt "fcn" of the selected option (also ${type["fcn"]})
//	${samp_rate()}   evaluated value
//
// Any other interpolation, such as ${samp_rate() / 2} or a %{ if } directive,
// is evaluated by HCL with every parameter bound both as a string variable
// holding its code text and as a zero-argument function returning its value.
//
// The shorthand forms $samp_rate, $samp_rate(), $type.fcn and $(expr) are
// accepted and rewritten to the braced form before parsing.
package resolver
