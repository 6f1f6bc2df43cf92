package extract

import (
	"regexp"

	"github.com/zenith-dev/zenith/internal/model"
)

// TSXExtractor reuses the TypeScript engine with JSX/hook metadata
// collection enabled: a capitalized function or arrow-function is treated
// as a Component and scanned for React hook calls and a "use client"/
// "use server" directive (spec §4.1 TSX behaviors).
type TSXExtractor struct {
	funcRe, arrowRe, classRe, interfaceRe, typeRe, enumRe, methodRe *regexp.Regexp
}

func NewTSXExtractor() *TSXExtractor {
	f, a, c, i, t, en, me := newTSPatterns()
	return &TSXExtractor{funcRe: f, arrowRe: a, classRe: c, interfaceRe: i, typeRe: t, enumRe: en, methodRe: me}
}

func (e *TSXExtractor) Language() string { return "tsx" }

func (e *TSXExtractor) Extract(content string) ([]model.ParsedItem, error) {
	return extractTSFamily(content, e.funcRe, e.arrowRe, e.classRe, e.interfaceRe, e.typeRe, e.enumRe, e.methodRe, true)
}
