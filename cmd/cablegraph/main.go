package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cablegraph/cablegraph/pkg/clipboard"
	"github.com/cablegraph/cablegraph/pkg/descriptor"
	"github.com/cablegraph/cablegraph/pkg/inventory"
	"github.com/cablegraph/cablegraph/pkg/layout"
	"github.com/cablegraph/cablegraph/pkg/logging"
	"github.com/cablegraph/cablegraph/pkg/metrics"
	"github.com/cablegraph/cablegraph/pkg/modes"
	"github.com/cablegraph/cablegraph/pkg/pattern"
	"github.com/cablegraph/cablegraph/pkg/placement"
	"github.com/cablegraph/cablegraph/pkg/ui"
	"github.com/cablegraph/cablegraph/pkg/validation"
)

type CLI struct {
	store     *inventory.Store
	sync      *modes.Synchronizer
	engine    *pattern.Engine
	clip      *clipboard.Manager
	reg       *metrics.Registry
	scanner   *bufio.Scanner
	selection []inventory.NodeID
}

// Notify implements ui.Boundary: events are printed straight to the
// terminal with a severity marker.
func (cli *CLI) Notify(ev ui.Event) {
	switch ev.Severity {
	case ui.SeverityWarn:
		fmt.Printf("⚠️  %s\n", ev.Message)
	case ui.SeverityError:
		fmt.Printf("❌ %s\n", ev.Message)
	default:
		fmt.Printf("ℹ️  %s\n", ev.Message)
	}
}

// Confirm implements ui.Boundary with a y/n prompt.
func (cli *CLI) Confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	if !cli.scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(cli.scanner.Text()))
	return answer == "y" || answer == "yes"
}

func main() {
	file := flag.String("file", "", "Topology descriptor to load on startup")
	flag.Parse()

	printBanner()

	log := logging.DefaultLogger().With(logging.Component("cli"))
	store := inventory.NewStore(log)
	sync := modes.NewSynchronizer(store, log)

	cli := &CLI{
		store:   store,
		sync:    sync,
		engine:  pattern.NewEngine(store, log),
		clip:    clipboard.NewManager(store, sync, log),
		reg:     metrics.DefaultRegistry(),
		scanner: bufio.NewScanner(os.Stdin),
	}

	if *file != "" {
		fmt.Printf("📂 Loading topology from %s...\n", *file)
		if err := cli.loadFile(*file); err != nil {
			fmt.Printf("❌ Failed to load topology: %v\n", err)
			os.Exit(1)
		}
		stats := store.Statistics()
		fmt.Printf("✅ Topology loaded\n")
		fmt.Printf("   Shelves:     %d\n", stats.Shelves)
		fmt.Printf("   Connections: %d\n\n", stats.Connections)
	}

	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()

	cli.run()
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                                                           ║
║      ██████╗ █████╗ ██████╗ ██╗     ███████╗              ║
║     ██╔════╝██╔══██╗██╔══██╗██║     ██╔════╝              ║
║     ██║     ███████║██████╔╝██║     █████╗                ║
║     ██║     ██╔══██║██╔══██╗██║     ██╔══╝                ║
║     ╚██████╗██║  ██║██████╔╝███████╗███████╗              ║
║      ╚═════╝╚═╝  ╚═╝╚═════╝ ╚══════╝╚══════╝              ║
║                                                           ║
║           CableGraph Topology Editor v1.0                 ║
║                                                           ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}

func (cli *CLI) run() {
	for {
		fmt.Printf("cablegraph[%s]> ", cli.sync.Mode())

		if !cli.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(cli.scanner.Text())
		if input == "" {
			continue
		}

		if input == "exit" || input == "quit" {
			fmt.Println("👋 Goodbye!")
			break
		}

		cli.executeCommand(input)
		fmt.Println()
	}
}

func (cli *CLI) executeCommand(input string) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	command := strings.ToLower(parts[0])

	switch command {
	case "help":
		cli.showHelp()

	case "stats", "status":
		cli.showStats()

	case "tree", "ls":
		root := cli.store.RootID()
		if len(parts) > 1 {
			root = parseNodeID(parts[1])
		}
		cli.showTree(root)

	case "templates", "lt":
		cli.listTemplates()

	case "mktemplate", "mt":
		cli.createTemplateInteractive()

	case "instantiate", "inst":
		if len(parts) < 3 {
			fmt.Println("Usage: instantiate <template> <label>")
			return
		}
		cli.instantiate(parts[1], parts[2])

	case "mkshelf", "ms":
		cli.createShelfInteractive()

	case "rm":
		if len(parts) < 2 {
			fmt.Println("Usage: rm <node-id>")
			return
		}
		cli.deleteNode(parseNodeID(parts[1]))

	case "connect", "c":
		if len(parts) < 8 {
			fmt.Println("Usage: connect <shelf-a> <tray> <port> <shelf-b> <tray> <port> <cable-type>")
			return
		}
		cli.connect(parts[1:])

	case "disconnect", "dc":
		if len(parts) < 2 {
			fmt.Println("Usage: disconnect <connection-id>")
			return
		}
		cli.disconnect(parseConnID(parts[1]))

	case "connections", "lc":
		cli.listConnections()

	case "mode":
		if len(parts) < 2 {
			fmt.Printf("Current mode: %s\n", cli.sync.Mode())
			return
		}
		cli.switchMode(parts[1])

	case "assign":
		cli.assignInteractive()

	case "select", "sel":
		if len(parts) < 2 {
			fmt.Println("Usage: select <node-id> [node-id...]")
			return
		}
		cli.selectNodes(parts[1:])

	case "copy", "cp":
		cli.copySelection()

	case "paste", "p":
		cli.pasteInteractive()

	case "save":
		if len(parts) < 2 {
			fmt.Println("Usage: save <file>")
			return
		}
		cli.saveFile(parts[1])

	case "load":
		if len(parts) < 2 {
			fmt.Println("Usage: load <file>")
			return
		}
		if err := cli.loadFile(parts[1]); err != nil {
			fmt.Printf("❌ Failed to load: %v\n", err)
			return
		}
		fmt.Println("✅ Topology loaded")

	case "clear":
		fmt.Print("\033[H\033[2J")

	default:
		fmt.Printf("❌ Unknown command: %s (type 'help' for available commands)\n", command)
	}
}

func (cli *CLI) showHelp() {
	help := `
📖 Available Commands:

🔍 Inspection:
  stats                 Show topology statistics
  tree [id]             Show the containment tree
  templates             List registered templates
  connections           List cables
  lc                    Shorthand for connections

🛠️  Editing:
  mkshelf               Interactive shelf creation
  mktemplate            Interactive template creation
  instantiate <t> <l>   Instantiate template t with label l
  rm <id>               Delete a node and its subtree
  connect <a> <tray> <port> <b> <tray> <port> <cable>
                        Cable two ports, choosing a level
  disconnect <id>       Remove a cable

🗺️  Layout & Modes:
  mode [target]         Show or switch the view mode
  assign                Interactive rack assignment

📋 Clipboard:
  select <id...>        Set the working selection
  copy                  Capture the selection
  paste                 Paste at a destination

💾 Persistence:
  save <file>           Write the topology descriptor
  load <file>           Read a topology descriptor

🎮 Other:
  clear                 Clear screen
  help                  Show this help
  exit/quit             Exit

💡 Examples:
  mkshelf
  connect 5 1 1 16 1 1 dac
  mode location
  select 5 16
  copy
`
	fmt.Println(help)
}

func (cli *CLI) showStats() {
	stats := cli.store.Statistics()
	cli.reg.UpdateTopologyCounts(stats.Nodes, stats.Shelves, stats.Connections)

	fmt.Println("📊 Topology Statistics:")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("  Mode:        %s\n", cli.sync.Mode())
	fmt.Printf("  Nodes:       %d\n", stats.Nodes)
	fmt.Printf("  Shelves:     %d\n", stats.Shelves)
	fmt.Printf("  Connections: %d\n", stats.Connections)
	fmt.Printf("  Templates:   %d\n", stats.Templates)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━")
}

func (cli *CLI) showTree(root inventory.NodeID) {
	n, err := cli.store.GetNode(root)
	if err != nil {
		fmt.Printf("❌ Node %d not found\n", root)
		return
	}

	var render func(n *inventory.Node, indent string)
	render = func(n *inventory.Node, indent string) {
		desc := describeNode(n)
		fmt.Printf("%s%s\n", indent, desc)
		if n.Kind == inventory.KindShelf {
			// Trays and ports are implied by the shelf line.
			return
		}
		for _, childID := range cli.store.ChildrenOf(n.ID) {
			child, err := cli.store.GetNode(childID)
			if err != nil {
				continue
			}
			render(child, indent+"  ")
		}
	}
	render(n, "")
}

func describeNode(n *inventory.Node) string {
	switch n.Kind {
	case inventory.KindShelf:
		loc := ""
		if n.Shelf.Loc != nil {
			loc = fmt.Sprintf(" @ %s/%s/%d/u%d", n.Shelf.Loc.Hall, n.Shelf.Loc.Aisle, n.Shelf.Loc.RackNum, n.Shelf.Loc.ShelfU)
		}
		return fmt.Sprintf("🖥  [%d] shelf %q host=%s%s", n.ID, n.Label, n.Shelf.Hostname, loc)
	case inventory.KindGraph:
		if n.Graph.TemplateName != "" {
			return fmt.Sprintf("📦 [%d] %s (template %s)", n.ID, n.Label, n.Graph.TemplateName)
		}
		return fmt.Sprintf("📦 [%d] %s", n.ID, n.Label)
	case inventory.KindHall:
		return fmt.Sprintf("🏢 [%d] hall %s", n.ID, n.Hall.Name)
	case inventory.KindAisle:
		return fmt.Sprintf("🚪 [%d] aisle %s", n.ID, n.Aisle.Name)
	case inventory.KindRack:
		return fmt.Sprintf("🗄  [%d] rack %s/%s/%d", n.ID, n.Rack.Hall, n.Rack.Aisle, n.Rack.Num)
	default:
		return fmt.Sprintf("[%d] %s %s", n.ID, n.Kind, n.Label)
	}
}

func (cli *CLI) listTemplates() {
	templates := cli.store.Templates()
	fmt.Printf("📋 Templates (total: %d)\n", len(templates))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	for _, t := range templates {
		instances := cli.store.GraphsByTemplate(t.Name)
		fmt.Printf("  %s: %d children, %d connections, %d live instances\n",
			t.Name, len(t.Children), len(t.Connections), len(instances))
	}
}

func (cli *CLI) createTemplateInteractive() {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("🆕 Create New Template")
	fmt.Println("━━━━━━━━━━━━━━━━━━")

	fmt.Print("Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if err := validation.ValidateTemplateName(name); err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}

	t := &inventory.Template{Name: name}
	fmt.Println("\nChildren (enter empty name to finish):")
	for {
		fmt.Print("  Child name: ")
		childName, _ := reader.ReadString('\n')
		childName = strings.TrimSpace(childName)
		if childName == "" {
			break
		}

		fmt.Print("  Nested template (empty for a leaf shelf): ")
		ref, _ := reader.ReadString('\n')
		ref = strings.TrimSpace(ref)

		if ref != "" {
			t.Children = append(t.Children, inventory.TemplateChild{
				Name: childName, Kind: inventory.ChildGraph, RefTemplate: ref,
			})
			continue
		}

		fmt.Print("  Trays: ")
		traysStr, _ := reader.ReadString('\n')
		trays, _ := strconv.Atoi(strings.TrimSpace(traysStr))

		fmt.Print("  Ports per tray: ")
		portsStr, _ := reader.ReadString('\n')
		ports, _ := strconv.Atoi(strings.TrimSpace(portsStr))

		t.Children = append(t.Children, inventory.TemplateChild{
			Name: childName, Kind: inventory.ChildLeaf, Trays: trays, PortsPerTray: ports,
		})
	}

	if err := cli.store.PutTemplate(t); err != nil {
		fmt.Printf("❌ Failed to register template: %v\n", err)
		return
	}

	fmt.Printf("\n✅ Registered template %q with %d children\n", name, len(t.Children))
}

func (cli *CLI) instantiate(templateName, label string) {
	start := time.Now()
	id, err := cli.store.Instantiate(templateName, cli.store.RootID(), label)
	if err != nil {
		cli.reg.RecordOperation("instantiate", "error", time.Since(start))
		fmt.Printf("❌ Failed to instantiate: %v\n", err)
		return
	}
	cli.reg.RecordOperation("instantiate", "success", time.Since(start))

	shelves := cli.store.DescendantShelves(id)
	fmt.Printf("✅ Instantiated %s as %q (ID: %d, %d shelves)\n", templateName, label, id, len(shelves))
}

func (cli *CLI) createShelfInteractive() {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("🆕 Create New Shelf")
	fmt.Println("━━━━━━━━━━━━━━━━━━")

	fmt.Print("Label: ")
	label, _ := reader.ReadString('\n')
	label = strings.TrimSpace(label)

	fmt.Print("Hostname: ")
	hostname, _ := reader.ReadString('\n')
	hostname = strings.TrimSpace(hostname)

	fmt.Print("Trays (default 2): ")
	traysStr, _ := reader.ReadString('\n')
	trays := 2
	if s := strings.TrimSpace(traysStr); s != "" {
		trays, _ = strconv.Atoi(s)
	}

	fmt.Print("Ports per tray (default 16): ")
	portsStr, _ := reader.ReadString('\n')
	ports := 16
	if s := strings.TrimSpace(portsStr); s != "" {
		ports, _ = strconv.Atoi(s)
	}

	req := &validation.ShelfRequest{Label: label, Hostname: hostname, Trays: trays, PortsPerTray: ports}
	if err := validation.ValidateShelfRequest(req); err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}

	shelf, err := cli.store.CreateShelf(cli.store.RootID(), label, hostname, trays, ports)
	if err != nil {
		fmt.Printf("❌ Failed to create shelf: %v\n", err)
		return
	}

	fmt.Printf("\n✅ Created shelf %q (ID: %d, host index: %d)\n", label, shelf.ID, shelf.Shelf.HostIndex)
}

func (cli *CLI) deleteNode(id inventory.NodeID) {
	if !cli.Confirm(fmt.Sprintf("Delete node %d and its whole subtree?", id)) {
		fmt.Println("Cancelled")
		return
	}
	if err := cli.store.DeleteNode(id); err != nil {
		fmt.Printf("❌ Failed to delete: %v\n", err)
		return
	}
	fmt.Printf("✅ Deleted node %d\n", id)
}

func (cli *CLI) connect(args []string) {
	shelfA := parseNodeID(args[0])
	trayA, _ := strconv.Atoi(args[1])
	portA, _ := strconv.Atoi(args[2])
	shelfB := parseNodeID(args[3])
	trayB, _ := strconv.Atoi(args[4])
	portB, _ := strconv.Atoi(args[5])
	cableType := args[6]

	src, ok := cli.store.FindPort(shelfA, trayA, portA)
	if !ok {
		fmt.Printf("❌ Port %d/%d not found on shelf %d\n", trayA, portA, shelfA)
		return
	}
	dst, ok := cli.store.FindPort(shelfB, trayB, portB)
	if !ok {
		fmt.Printf("❌ Port %d/%d not found on shelf %d\n", trayB, portB, shelfB)
		return
	}

	req := &validation.ConnectionRequest{SourcePortID: uint64(src), TargetPortID: uint64(dst), CableType: cableType}
	if err := validation.ValidateConnectionRequest(req); err != nil {
		fmt.Printf("❌ Invalid connection request: %v\n", err)
		return
	}

	candidates, err := placement.Resolve(cli.store, src, dst)
	if err != nil {
		fmt.Printf("❌ Placement error: %v\n", err)
		return
	}

	level := candidates[0]
	if level.TemplateScoped && level.InstanceCount > 1 {
		prompt := fmt.Sprintf("Declare on template %q and cable all %d instances?", level.TemplateName, level.InstanceCount)
		if !cli.Confirm(prompt) {
			// Fall back to a concrete, unscoped cable.
			level = candidates[len(candidates)-1]
		}
	}

	cable := inventory.CableSpec{Type: cableType}
	start := time.Now()

	if level.TemplateScoped {
		report, err := cli.engine.ConnectAcross(src, dst, cable)
		if err != nil {
			cli.reg.RecordReplication("connect", "error", 0, 0)
			fmt.Printf("❌ Failed to connect: %v\n", err)
			return
		}
		cli.reg.RecordReplication("connect", "success", len(report.Applied), len(report.Skipped))
		fmt.Printf("✅ Cabled %d instances of %q in %v\n", len(report.Applied), report.Template, time.Since(start))
		for _, sk := range report.Skipped {
			fmt.Printf("   ⚠️  Skipped instance %d: %s\n", sk.InstanceID, sk.Reason)
		}
		return
	}

	conn, err := cli.store.CreateConnection(src, dst, cable, "")
	if err != nil {
		fmt.Printf("❌ Failed to connect: %v\n", err)
		return
	}
	fmt.Printf("✅ Created connection %d (%s)\n", conn.ID, cableType)
}

func (cli *CLI) disconnect(id inventory.ConnectionID) {
	conn, err := cli.store.GetConnection(id)
	if err != nil {
		fmt.Printf("❌ Connection %d not found\n", id)
		return
	}

	if conn.TemplateName != "" {
		prompt := fmt.Sprintf("Connection %d belongs to template %q; remove it from every instance?", id, conn.TemplateName)
		if !cli.Confirm(prompt) {
			fmt.Println("Cancelled")
			return
		}
		report, err := cli.engine.DisconnectAcross(id)
		if err != nil {
			fmt.Printf("❌ Failed to disconnect: %v\n", err)
			return
		}
		fmt.Printf("✅ Removed %d connections across %d instances\n", report.Removed, len(report.Applied))
		return
	}

	if err := cli.store.DeleteConnection(id); err != nil {
		fmt.Printf("❌ Failed to disconnect: %v\n", err)
		return
	}
	fmt.Printf("✅ Removed connection %d\n", id)
}

func (cli *CLI) listConnections() {
	conns := cli.store.Connections()
	fmt.Printf("🔗 Connections (total: %d)\n", len(conns))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	for i, conn := range conns {
		if i >= 50 {
			fmt.Printf("  ... and %d more\n", len(conns)-i)
			break
		}
		scope := ""
		if conn.TemplateName != "" {
			scope = fmt.Sprintf(" [template %s]", conn.TemplateName)
		}
		fmt.Printf("  [%d] %d ↔ %d %s%s\n", conn.ID, conn.SourcePortID, conn.TargetPortID, conn.CableType, scope)
	}
}

func (cli *CLI) switchMode(target string) {
	mode, ok := modes.ParseMode(target)
	if !ok {
		fmt.Printf("❌ Unknown mode %q (hierarchy or location)\n", target)
		return
	}

	start := time.Now()
	report, err := cli.sync.SwitchMode(mode)
	if err != nil {
		cli.reg.RecordModeSwitch(mode.String(), "error", time.Since(start), 0)
		fmt.Printf("❌ Failed to switch: %v\n", err)
		return
	}
	cli.reg.RecordModeSwitch(mode.String(), "success", time.Since(start), report.Moved)

	fmt.Printf("✅ Switched to %s mode in %v\n", mode, time.Since(start))
	fmt.Printf("   Shelves moved:      %d\n", report.Moved)
	if report.RacksCreated > 0 {
		fmt.Printf("   Racks created:      %d\n", report.RacksCreated)
	}
	if report.ContainersRemoved > 0 {
		fmt.Printf("   Containers removed: %d\n", report.ContainersRemoved)
	}
}

func (cli *CLI) assignInteractive() {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("🗺  Rack Assignment Plan")
	fmt.Println("━━━━━━━━━━━━━━━━━━")
	fmt.Println("Enumerations accept single values, ranges (1-4), and lists (1,3,5)")

	fmt.Print("Halls: ")
	halls, _ := reader.ReadString('\n')
	fmt.Print("Aisles: ")
	aisles, _ := reader.ReadString('\n')
	fmt.Print("Racks: ")
	racks, _ := reader.ReadString('\n')
	fmt.Print("Shelf units: ")
	units, _ := reader.ReadString('\n')

	plan, err := layout.NewPlan(
		strings.TrimSpace(halls),
		strings.TrimSpace(aisles),
		strings.TrimSpace(racks),
		strings.TrimSpace(units),
	)
	if err != nil {
		fmt.Printf("❌ Invalid plan: %v\n", err)
		return
	}

	start := time.Now()
	res, err := layout.NewAssigner(cli.store, cli, logging.DefaultLogger()).Assign(plan)
	if err != nil {
		cli.reg.RecordLayoutAssignment("error", 0, 0)
		fmt.Printf("❌ Assignment failed: %v\n", err)
		return
	}
	cli.reg.RecordLayoutAssignment("success", res.Assigned, res.Unassigned)

	fmt.Printf("✅ Assigned %d shelves (capacity %d) in %v\n", res.Assigned, res.Capacity, time.Since(start))
	if res.Unassigned > 0 {
		fmt.Printf("   ⚠️  %d shelves left without a slot\n", res.Unassigned)
	}
}

func (cli *CLI) selectNodes(args []string) {
	cli.selection = cli.selection[:0]
	for _, arg := range args {
		id := parseNodeID(arg)
		if !cli.store.HasNode(id) {
			fmt.Printf("❌ Node %d not found\n", id)
			return
		}
		cli.selection = append(cli.selection, id)
	}
	fmt.Printf("✅ Selected %d nodes\n", len(cli.selection))
}

func (cli *CLI) copySelection() {
	if err := cli.clip.Copy(cli.selection, cli.sync.Mode()); err != nil {
		cli.reg.RecordCopy(cli.sync.Mode().String(), "error")
		fmt.Printf("❌ Copy failed: %v\n", err)
		return
	}
	cli.reg.RecordCopy(cli.sync.Mode().String(), "success")

	snap := cli.clip.Snapshot()
	fmt.Printf("✅ Captured selection (%s mode snapshot)\n", snap.Mode)
}

func (cli *CLI) pasteInteractive() {
	if !cli.clip.HasClipboard() {
		fmt.Println("❌ Clipboard is empty")
		return
	}

	reader := bufio.NewReader(os.Stdin)
	dest := clipboard.Destination{Mode: cli.sync.Mode()}

	if cli.sync.Mode() == modes.Hierarchy {
		fmt.Print("Target container ID (empty for root): ")
		idStr, _ := reader.ReadString('\n')
		idStr = strings.TrimSpace(idStr)
		if idStr == "" {
			dest.ParentID = cli.store.RootID()
		} else {
			dest.ParentID = parseNodeID(idStr)
		}
	} else {
		fmt.Print("Hall: ")
		hall, _ := reader.ReadString('\n')
		dest.Hall = strings.TrimSpace(hall)

		fmt.Print("Aisle: ")
		aisle, _ := reader.ReadString('\n')
		dest.Aisle = strings.TrimSpace(aisle)

		fmt.Print("Rack number: ")
		rackStr, _ := reader.ReadString('\n')
		dest.RackNum, _ = strconv.Atoi(strings.TrimSpace(rackStr))
	}

	report, err := cli.clip.Paste(dest)
	if err != nil {
		cli.reg.RecordPaste(cli.sync.Mode().String(), "error", 0)
		fmt.Printf("❌ Paste failed: %v\n", err)
		return
	}
	cli.reg.RecordPaste(cli.sync.Mode().String(), "success", report.ShelvesCreated)

	fmt.Printf("✅ Pasted %d shelves, %d connections\n", report.ShelvesCreated, report.ConnectionsCreated)
}

func (cli *CLI) saveFile(path string) {
	doc, err := descriptor.Snapshot(cli.store, cli.sync.Mode())
	if err != nil {
		fmt.Printf("❌ Snapshot failed: %v\n", err)
		return
	}

	f, err := os.Create(path)
	if err != nil {
		fmt.Printf("❌ Failed to create %s: %v\n", path, err)
		return
	}
	defer f.Close()

	if err := descriptor.Save(f, doc); err != nil {
		fmt.Printf("❌ Failed to write descriptor: %v\n", err)
		return
	}
	fmt.Printf("✅ Saved topology to %s\n", path)
}

func (cli *CLI) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := descriptor.Load(f)
	if err != nil {
		return err
	}

	mode, err := descriptor.Apply(doc, cli.store)
	if err != nil {
		return err
	}
	cli.sync.AdoptMode(mode)
	return nil
}

func parseNodeID(s string) inventory.NodeID {
	id, _ := strconv.ParseUint(s, 10, 64)
	return inventory.NodeID(id)
}

func parseConnID(s string) inventory.ConnectionID {
	id, _ := strconv.ParseUint(s, 10, 64)
	return inventory.ConnectionID(id)
}
