package extract

import (
	"regexp"

	"github.com/zenith-dev/zenith/internal/model"
)

// JavaScriptExtractor reuses the TypeScript engine: the type-annotation
// groups in the shared patterns simply never match plain JS source, so the
// same regexes degrade gracefully to untyped signatures.
type JavaScriptExtractor struct {
	funcRe, arrowRe, classRe, interfaceRe, typeRe, enumRe, methodRe *regexp.Regexp
}

func NewJavaScriptExtractor() *JavaScriptExtractor {
	f, a, c, i, t, en, me := newTSPatterns()
	return &JavaScriptExtractor{funcRe: f, arrowRe: a, classRe: c, interfaceRe: i, typeRe: t, enumRe: en, methodRe: me}
}

func (e *JavaScriptExtractor) Language() string { return "javascript" }

func (e *JavaScriptExtractor) Extract(content string) ([]model.ParsedItem, error) {
	return extractTSFamily(content, e.funcRe, e.arrowRe, e.classRe, e.interfaceRe, e.typeRe, e.enumRe, e.methodRe, true)
}
