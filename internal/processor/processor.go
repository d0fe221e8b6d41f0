// Package processor provides a modular framework for processing input lines
// with configurable processor chains.
package processor

import (
	"fmt"
	"strings"
)

const (
	ProcessorTypeTrim        string = "trim"
	ProcessorTypeSkipBlank   string = "skip_blank"
	ProcessorTypeSkipComment string = "skip_comment"
)

// CommentPrefix marks a line that is ignored by SkipCommentProcessor.
const CommentPrefix = "#"

// Processor defines the interface for processing string slices.
type Processor interface {
	// Process applies the processor's logic to the input lines.
	Process([]string) ([]string, error)
	Name() string
}

// ProcessorChain manages a collection of processors and applies them in sequence.
type ProcessorChain struct {
	processors map[string]Processor
}

func NewProcessorChain() *ProcessorChain {
	pc := &ProcessorChain{
		processors: make(map[string]Processor),
	}
	pc.registerDefaults()
	return pc
}

func (pc *ProcessorChain) registerDefaults() {
	pc.Register(&TrimProcessor{})
	pc.Register(&SkipBlankProcessor{})
	pc.Register(&SkipCommentProcessor{})
}

// Register adds a processor to the chain.
func (pc *ProcessorChain) Register(p Processor) {
	pc.processors[p.Name()] = p
}

// Process applies the named processors to lines in the given order.
func (pc *ProcessorChain) Process(lines []string, processorNames ...string) ([]string, error) {
	for _, name := range processorNames {
		if _, exists := pc.processors[name]; !exists {
			return nil, fmt.Errorf("processor %q not registered", name)
		}
	}
	result := lines
	for _, name := range processorNames {
		if len(result) == 0 {
			break
		}
		var err error
		result, err = pc.processors[name].Process(result)
		if err != nil {
			return nil, fmt.Errorf("%s processor failed: %w", name, err)
		}
	}
	return result, nil
}

// TrimProcessor trims whitespace from each line in the input.
type TrimProcessor struct{}

func (p *TrimProcessor) Name() string { return ProcessorTypeTrim }
func (p *TrimProcessor) Process(lines []string) ([]string, error) {
	trimmed := make([]string, len(lines))
	for i, line := range lines {
		trimmed[i] = strings.TrimSpace(line)
	}
	return trimmed, nil
}

// SkipBlankProcessor drops lines that contain only whitespace.
type SkipBlankProcessor struct{}

func (p *SkipBlankProcessor) Name() string { return ProcessorTypeSkipBlank }
func (p *SkipBlankProcessor) Process(lines []string) ([]string, error) {
	return filter(lines, func(line string) bool {
		return strings.TrimSpace(line) != ""
	}), nil
}

// SkipCommentProcessor drops lines starting with CommentPrefix, leading
// whitespace ignored.
type SkipCommentProcessor struct{}

func (p *SkipCommentProcessor) Name() string { return ProcessorTypeSkipComment }
func (p *SkipCommentProcessor) Process(lines []string) ([]string, error) {
	return filter(lines, func(line string) bool {
		return !strings.HasPrefix(strings.TrimSpace(line), CommentPrefix)
	}), nil
}

func filter(lines []string, keep func(string) bool) []string {
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if keep(line) {
			result = append(result, line)
		}
	}
	return result
}
