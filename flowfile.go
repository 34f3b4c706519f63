package helpflow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FlowFile is a declarative set of flow definitions, typically loaded from a
// YAML file shipped alongside the host app:
//
//	flows:
//	  - id: onboarding
//	    description: Getting started
//	    showInitially: true
//	    items:
//	      - target: btn-save
//	      - id: step-export
//	        target: btn-export
//
// Item order in the document defines step order, exactly as declaration
// order does with FlowBuilder.
type FlowFile struct {
	Flows []FlowDecl `yaml:"flows"`
}

// FlowDecl declares one flow.
type FlowDecl struct {
	ID            string         `yaml:"id"`
	Description   string         `yaml:"description"`
	ShowInitially bool           `yaml:"showInitially"`
	Items         []FlowItemDecl `yaml:"items"`
}

// FlowItemDecl declares one step. ID is optional; absent, the default id is
// derived from the flow id, target, and position.
type FlowItemDecl struct {
	ID     string `yaml:"id"`
	Target string `yaml:"target"`
}

// ParseFlowFile parses YAML flow declarations.
func ParseFlowFile(data []byte) (*FlowFile, error) {
	var f FlowFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse flow file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFlowFile reads and parses a YAML flow file from disk.
func LoadFlowFile(path string) (*FlowFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read flow file: %w", err)
	}
	return ParseFlowFile(data)
}

func (f *FlowFile) validate() error {
	seen := make(map[string]struct{}, len(f.Flows))
	for _, flow := range f.Flows {
		if flow.ID == "" {
			return fmt.Errorf("flow file: flow with no id")
		}
		if _, dup := seen[flow.ID]; dup {
			return fmt.Errorf("flow file: duplicate flow %s", flow.ID)
		}
		seen[flow.ID] = struct{}{}
		if len(flow.Items) == 0 {
			return fmt.Errorf("flow file: flow %s has no items", flow.ID)
		}
		for i, item := range flow.Items {
			if item.Target == "" {
				return fmt.Errorf("flow file: flow %s item %d has no target", flow.ID, i)
			}
		}
	}
	return nil
}

// Register registers every declared flow on the controller through the same
// builder path a mount-time container uses.
func (f *FlowFile) Register(ctrl Controller) error {
	for _, flow := range f.Flows {
		b := NewFlow(FlowID(flow.ID)).Describe(flow.Description)
		if flow.ShowInitially {
			b.ShowInitially()
		}
		for _, item := range flow.Items {
			b.NamedItem(ItemID(item.ID), TargetID(item.Target))
		}
		if err := b.Register(ctrl); err != nil {
			return err
		}
	}
	return nil
}
