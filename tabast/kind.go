package tabast

import (
	"fmt"

	"github.com/dhamidi/tablature/syntax"
)

type Kind int

const (
	KindSegment Kind = iota
	KindBlock
	KindLineNaming
	KindMeasureLineName
	KindMeasure
	KindSound
	KindConnectorGroup

	// Connectors
	KindHammer
	KindPull
	KindSlide

	// Decorators
	KindGrace
	KindHarmonic

	// Notes
	KindFret

	// Modifiers
	KindRepeat
	KindTimeSignature
	KindMultiplier
)

var kindNames = map[Kind]string{
	KindSegment:         "Segment",
	KindBlock:           "Block",
	KindLineNaming:      "LineNaming",
	KindMeasureLineName: "MeasureLineName",
	KindMeasure:         "Measure",
	KindSound:           "Sound",
	KindConnectorGroup:  "ConnectorGroup",
	KindHammer:          "Hammer",
	KindPull:            "Pull",
	KindSlide:           "Slide",
	KindGrace:           "Grace",
	KindHarmonic:        "Harmonic",
	KindFret:            "Fret",
	KindRepeat:          "Repeat",
	KindTimeSignature:   "TimeSignature",
	KindMultiplier:      "Multiplier",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Family groups the kinds that share construction and range rules.
type Family int

const (
	FamilyStructure Family = iota
	FamilyConnector
	FamilyDecorator
	FamilyNote
	FamilyModifier
)

func (k Kind) Family() Family {
	switch k {
	case KindHammer, KindPull, KindSlide:
		return FamilyConnector
	case KindGrace, KindHarmonic:
		return FamilyDecorator
	case KindFret:
		return FamilyNote
	case KindRepeat, KindTimeSignature, KindMultiplier:
		return FamilyModifier
	default:
		return FamilyStructure
	}
}

// The kind constructors below panic on raw types outside their family. The
// raw grammar and this package disagreeing is a bug, not bad input.

func ConnectorKind(rawType string) Kind {
	switch rawType {
	case syntax.TypeHammer:
		return KindHammer
	case syntax.TypePull:
		return KindPull
	case syntax.TypeSlide:
		return KindSlide
	}
	panic(fmt.Sprintf("tabast: unknown connector type %q", rawType))
}

func DecoratorKind(rawType string) Kind {
	switch rawType {
	case syntax.TypeGrace:
		return KindGrace
	case syntax.TypeHarmonic:
		return KindHarmonic
	}
	panic(fmt.Sprintf("tabast: unknown decorator type %q", rawType))
}

func NoteKind(rawType string) Kind {
	if rawType == syntax.TypeFret {
		return KindFret
	}
	panic(fmt.Sprintf("tabast: unknown note type %q", rawType))
}

func ModifierKind(rawType string) Kind {
	switch rawType {
	case syntax.TypeRepeat:
		return KindRepeat
	case syntax.TypeTimeSignature:
		return KindTimeSignature
	case syntax.TypeMultiplier:
		return KindMultiplier
	}
	panic(fmt.Sprintf("tabast: unknown modifier type %q", rawType))
}

// ComponentKind classifies a measure component as a note, decorator or connector.
func ComponentKind(rawType string) Kind {
	switch {
	case isNote(rawType):
		return NoteKind(rawType)
	case isDecorator(rawType):
		return DecoratorKind(rawType)
	default:
		return ConnectorKind(rawType)
	}
}

func isNote(rawType string) bool {
	return rawType == syntax.TypeFret
}

func isDecorator(rawType string) bool {
	return rawType == syntax.TypeGrace || rawType == syntax.TypeHarmonic
}

func isComponent(rawType string) bool {
	return isNote(rawType) || isDecorator(rawType)
}

func isConnector(rawType string) bool {
	switch rawType {
	case syntax.TypeHammer, syntax.TypePull, syntax.TypeSlide:
		return true
	}
	return false
}

func isModifier(rawType string) bool {
	switch rawType {
	case syntax.TypeRepeat, syntax.TypeTimeSignature, syntax.TypeMultiplier:
		return true
	}
	return false
}
