package pattern

import (
	"fmt"

	"github.com/cablegraph/cablegraph/pkg/inventory"
	"github.com/cablegraph/cablegraph/pkg/logging"
)

// SkippedInstance records one instance a replicated edit could not be
// applied to, with the reason. Skips are reported, never fatal.
type SkippedInstance struct {
	InstanceID inventory.NodeID
	Reason     string
}

// FanoutReport summarizes a replicated edit.
type FanoutReport struct {
	Template    string
	Applied     []inventory.NodeID
	Skipped     []SkippedInstance
	Connections []inventory.ConnectionID // created by ConnectAcross
	Removed     int                      // connections removed by DisconnectAcross
}

// Engine replays structural edits across every live instance of a
// template, then updates the template's own definition so future
// instantiations already reflect the edit. The template definition and
// its live instances never diverge after a successful call.
//
// Patterns are anchored on whichever instance the operator is editing,
// which makes the operation commutative: editing via any instance
// produces the same end state.
type Engine struct {
	store *inventory.Store
	log   logging.Logger
}

// NewEngine creates a pattern engine over the given store.
func NewEngine(store *inventory.Store, log logging.Logger) *Engine {
	if log == nil {
		log = logging.DefaultLogger()
	}
	return &Engine{
		store: store,
		log:   log.With(logging.Component("pattern")),
	}
}

// ConnectAcross creates the connection described by two concrete ports
// in every live instance of their shared template, and appends it to
// the template's stored connection list.
//
// Both ports must resolve to the same nearest template instance; if
// they do not, the edit is instance-scoped by definition and the call
// is rejected rather than replicated from a meaningless pattern.
func (e *Engine) ConnectAcross(srcPort, dstPort inventory.NodeID, cable inventory.CableSpec) (*FanoutReport, error) {
	srcRoot, srcTemplate, srcOK := NearestInstance(e.store, srcPort)
	dstRoot, _, dstOK := NearestInstance(e.store, dstPort)
	if !srcOK || !dstOK || srcRoot != dstRoot {
		return nil, fmt.Errorf("connect %d-%d: %w", srcPort, dstPort, ErrCrossTemplate)
	}

	srcPat, err := Extract(e.store, srcPort, srcRoot)
	if err != nil {
		return nil, err
	}
	dstPat, err := Extract(e.store, dstPort, srcRoot)
	if err != nil {
		return nil, err
	}

	report := &FanoutReport{Template: srcTemplate}
	for _, inst := range e.store.GraphsByTemplate(srcTemplate) {
		src, ok := Resolve(e.store, inst, srcPat)
		if !ok {
			report.Skipped = append(report.Skipped, SkippedInstance{inst, "unresolved " + srcPat.String()})
			continue
		}
		dst, ok := Resolve(e.store, inst, dstPat)
		if !ok {
			report.Skipped = append(report.Skipped, SkippedInstance{inst, "unresolved " + dstPat.String()})
			continue
		}
		conn, err := e.store.CreateConnection(src, dst, cable, srcTemplate)
		if err != nil {
			return nil, err
		}
		report.Applied = append(report.Applied, inst)
		report.Connections = append(report.Connections, conn.ID)
	}

	if err := e.store.AppendTemplateConnection(srcTemplate, inventory.TemplateConnection{
		Source: srcPat,
		Target: dstPat,
		Cable:  cable,
	}); err != nil {
		return nil, err
	}

	e.logFanout("connection replicated", report)
	return report, nil
}

// DisconnectAcross removes a template-scoped connection from every live
// instance of its template and from the template's stored list. Any one
// of the replicated connections may be handed in; the edit is anchored
// on the instance it lives in.
func (e *Engine) DisconnectAcross(connID inventory.ConnectionID) (*FanoutReport, error) {
	conn, err := e.store.GetConnection(connID)
	if err != nil {
		return nil, err
	}
	if conn.TemplateName == "" {
		return nil, fmt.Errorf("disconnect %d: %w", connID, ErrNotTemplateScoped)
	}

	root, ok := InstanceAncestor(e.store, conn.SourcePortID, conn.TemplateName)
	if !ok {
		return nil, fmt.Errorf("disconnect %d: %w", connID, ErrNotInInstance)
	}
	srcPat, err := Extract(e.store, conn.SourcePortID, root)
	if err != nil {
		return nil, err
	}
	dstPat, err := Extract(e.store, conn.TargetPortID, root)
	if err != nil {
		return nil, err
	}

	report := &FanoutReport{Template: conn.TemplateName}
	for _, inst := range e.store.GraphsByTemplate(conn.TemplateName) {
		src, ok := Resolve(e.store, inst, srcPat)
		if !ok {
			report.Skipped = append(report.Skipped, SkippedInstance{inst, "unresolved " + srcPat.String()})
			continue
		}
		dst, ok := Resolve(e.store, inst, dstPat)
		if !ok {
			report.Skipped = append(report.Skipped, SkippedInstance{inst, "unresolved " + dstPat.String()})
			continue
		}
		removed := false
		for _, id := range e.store.ConnectionsBetween(src, dst) {
			c, err := e.store.GetConnection(id)
			if err != nil {
				continue
			}
			if c.TemplateName != conn.TemplateName {
				continue
			}
			if err := e.store.DeleteConnection(id); err != nil {
				return nil, err
			}
			report.Removed++
			removed = true
			break
		}
		if removed {
			report.Applied = append(report.Applied, inst)
		} else {
			report.Skipped = append(report.Skipped, SkippedInstance{inst, "no matching connection"})
		}
	}

	if _, err := e.store.RemoveTemplateConnection(conn.TemplateName, srcPat, dstPat); err != nil {
		return nil, err
	}

	e.logFanout("connection removal replicated", report)
	return report, nil
}

// AddChildAcross adds a child slot to a template and materializes it in
// every live instance. Instances that already carry a child with that
// name have locally diverged and are skipped.
func (e *Engine) AddChildAcross(templateName string, child inventory.TemplateChild) (*FanoutReport, error) {
	if !e.store.HasTemplate(templateName) {
		return nil, inventory.TemplateNotFoundError("AddChildAcross", templateName)
	}

	report := &FanoutReport{Template: templateName}
	instances := e.store.GraphsByTemplate(templateName)

	// The template update is validated first so a bad child definition
	// rejects before any instance mutates.
	if err := e.store.AppendTemplateChild(templateName, child); err != nil {
		return nil, err
	}

	for _, inst := range instances {
		if _, exists := e.store.ChildNodeByName(inst, child.Name); exists {
			report.Skipped = append(report.Skipped, SkippedInstance{inst, "child already present"})
			continue
		}
		instNode, err := e.store.GetNode(inst)
		if err != nil {
			return nil, err
		}
		switch child.Kind {
		case inventory.ChildLeaf:
			_, err = e.store.CreateShelfInInstance(inst, instNode.Label+"/"+child.Name, child, templateName)
		case inventory.ChildGraph:
			_, err = e.store.InstantiateAsChild(child.RefTemplate, inst, instNode.Label+"/"+child.Name, child.Name)
		}
		if err != nil {
			return nil, err
		}
		report.Applied = append(report.Applied, inst)
	}

	e.logFanout("child addition replicated", report)
	return report, nil
}

// RemoveChildAcross removes a child slot from a template, deletes the
// matching node (and its subtree and connections) in every live
// instance, and prunes stored connections anchored on that child.
func (e *Engine) RemoveChildAcross(templateName, childName string) (*FanoutReport, error) {
	if !e.store.HasTemplate(templateName) {
		return nil, inventory.TemplateNotFoundError("RemoveChildAcross", templateName)
	}

	report := &FanoutReport{Template: templateName}
	for _, inst := range e.store.GraphsByTemplate(templateName) {
		child, ok := e.store.ChildNodeByName(inst, childName)
		if !ok {
			report.Skipped = append(report.Skipped, SkippedInstance{inst, "child not present"})
			continue
		}
		if err := e.store.DeleteNode(child); err != nil {
			return nil, err
		}
		report.Applied = append(report.Applied, inst)
	}

	if _, err := e.store.RemoveTemplateChild(templateName, childName); err != nil {
		return nil, err
	}

	e.logFanout("child removal replicated", report)
	return report, nil
}

func (e *Engine) logFanout(msg string, r *FanoutReport) {
	e.log.Info(msg,
		logging.Template(r.Template),
		logging.Instances(len(r.Applied)),
		logging.Skipped(len(r.Skipped)))
	for _, sk := range r.Skipped {
		e.log.Warn("instance skipped: structural divergence",
			logging.Template(r.Template),
			logging.NodeID(uint64(sk.InstanceID)),
			logging.String("reason", sk.Reason))
	}
}
