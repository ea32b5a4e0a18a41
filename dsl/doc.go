// Package dsl implements the abstract syntax of the intent DSL: the node
// types a parsed request tree is built from, the surface-string utilities the
// parser and renderer share, and the recursive-descent parser itself.
//
// Every node type implements Node. Most are leaves or simple containers; the
// lifecycle hooks (PreResolution/DoResolution/PostResolution/OnReentryResolution)
// are only meaningful on the handful of node kinds that actually participate
// in resolution (Intent, Slot, ReturnValue, Ask, QueryFill, QueryUser,
// QueryGather, IntentRuntimeErrorResolver, Abort, AbortWithNewDsl); the rest
// use no-op hooks or the zero-value embedded defaults.
package dsl
