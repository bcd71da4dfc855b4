// Package repub republishes externally hosted articles as a static site.
// It ingests WeChat Official Account posts and uploaded PDF documents,
// normalizes their markup, localizes embedded images, stores everything in
// a single JSON record store, and deterministically regenerates a browsable
// static site from it.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., jsonstore/, goquery/, gemini/).
package repub
