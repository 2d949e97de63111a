package shell

import (
	"context"
	"errors"
	"strconv"

	"aios/internal/celestial"
)

// parseCloudArgs turns the ten positional arguments shared by
// celestial_add_cloud and celestial_update_cloud into a cloud.
func parseCloudArgs(args []string) (celestial.EmotionCloud, bool) {
	var cloud celestial.EmotionCloud
	cloud.ID = args[0]

	var floats [4]float32 // x, y, z, intensity
	for i, raw := range []string{args[1], args[2], args[3], args[8]} {
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return celestial.EmotionCloud{}, false
		}
		floats[i] = float32(f)
	}
	for i, raw := range []string{args[4], args[5], args[6], args[7]} {
		n, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			return celestial.EmotionCloud{}, false
		}
		cloud.Color[i] = uint8(n)
	}

	cloud.Position = [3]float32{floats[0], floats[1], floats[2]}
	cloud.Intensity = floats[3]
	cloud.Shape = args[9]
	return cloud, true
}

func (d *Dispatcher) printCloud(c celestial.EmotionCloud) {
	d.print("- ID: %s, Pos: [%.2f, %.2f, %.2f], Color: [%d,%d,%d,%d], Intensity: %.2f, Shape: %s",
		c.ID, c.Position[0], c.Position[1], c.Position[2],
		c.Color[0], c.Color[1], c.Color[2], c.Color[3],
		c.Intensity, c.Shape)
}

func (d *Dispatcher) cmdCloudAdd(ctx context.Context, args []string) {
	if len(args) != 10 {
		d.print("Usage: celestial_add_cloud <id> <x> <y> <z> <r> <g> <b> <a> <intensity> <shape>")
		d.print("Example: celestial_add_cloud cloud1 0.5 1.2 0.8 255 0 0 255 0.9 joyful_sphere")
		return
	}
	cloud, ok := parseCloudArgs(args)
	if !ok {
		d.print("Error: Invalid number format for position, color, or intensity.")
		return
	}
	if err := d.hal.Memory.StoreCloud(ctx, cloud); err != nil {
		d.print("Error storing cloud: %v", err)
		return
	}
	d.print("Emotion cloud stored.")
}

func (d *Dispatcher) cmdCloudGet(ctx context.Context, args []string) {
	if len(args) != 1 {
		d.print("Usage: celestial_get_cloud <id>")
		return
	}
	cloud, err := d.hal.Memory.GetCloud(ctx, args[0])
	if err != nil {
		d.print("Error: %v", err)
		return
	}
	d.printCloud(cloud)
}

func (d *Dispatcher) cmdCloudUpdate(ctx context.Context, args []string) {
	if len(args) != 10 {
		d.print("Usage: celestial_update_cloud <id> <x> <y> <z> <r> <g> <b> <a> <intensity> <shape>")
		return
	}
	cloud, ok := parseCloudArgs(args)
	if !ok {
		d.print("Error: Invalid number format for position, color, or intensity.")
		return
	}
	if err := d.hal.Memory.UpdateCloud(ctx, cloud); err != nil {
		d.print("Error updating cloud: %v", err)
		return
	}
	d.print("Emotion cloud updated.")
}

func (d *Dispatcher) cmdCloudRemove(ctx context.Context, args []string) {
	if len(args) != 1 {
		d.print("Usage: celestial_remove_cloud <id>")
		return
	}
	if err := d.hal.Memory.RemoveCloud(ctx, args[0]); err != nil {
		d.print("Error removing cloud: %v", err)
		return
	}
	d.print("Emotion cloud removed.")
}

func (d *Dispatcher) cmdCloudList(ctx context.Context, args []string) {
	if len(args) != 0 {
		d.print("Usage: celestial_list_clouds (no arguments)")
		return
	}
	clouds, err := d.hal.Memory.ListClouds(ctx)
	if err != nil {
		d.print("Error listing clouds: %v", err)
		return
	}
	if len(clouds) == 0 {
		d.print("No emotion clouds stored.")
		return
	}
	d.print("Stored Emotion Clouds:")
	for _, c := range clouds {
		d.printCloud(c)
	}
}

func (d *Dispatcher) cmdNodeAdd(ctx context.Context, args []string) {
	if len(args) < 5 {
		d.print("Usage: celestial_add_node <id> <x> <y> <z> <pointer> [cloudIDs...]")
		return
	}
	node := celestial.ResonantNode{ID: args[0], Pointer: args[4]}
	for i, raw := range args[1:4] {
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			d.print("Error: Invalid number format for position.")
			return
		}
		node.Position[i] = float32(f)
	}
	node.RelatedCloudIDs = append(node.RelatedCloudIDs, args[5:]...)

	if err := d.hal.Memory.StoreNode(ctx, node); err != nil {
		d.print("Error storing node: %v", err)
		return
	}
	d.print("Resonant node stored.")
}

func (d *Dispatcher) printNode(n celestial.ResonantNode) {
	d.print("- ID: %s, Pos: [%.2f, %.2f, %.2f], Related: %v, Pointer: %s",
		n.ID, n.Position[0], n.Position[1], n.Position[2], n.RelatedCloudIDs, n.Pointer)
}

func (d *Dispatcher) cmdNodeGet(ctx context.Context, args []string) {
	if len(args) != 1 {
		d.print("Usage: celestial_get_node <id>")
		return
	}
	node, err := d.hal.Memory.GetNode(ctx, args[0])
	if err != nil {
		d.print("Error: %v", err)
		return
	}
	d.printNode(node)
}

func (d *Dispatcher) cmdNodeRemove(ctx context.Context, args []string) {
	if len(args) != 1 {
		d.print("Usage: celestial_remove_node <id>")
		return
	}
	if err := d.hal.Memory.RemoveNode(ctx, args[0]); err != nil {
		d.print("Error removing node: %v", err)
		return
	}
	d.print("Resonant node removed.")
}

func (d *Dispatcher) cmdNodeList(ctx context.Context, args []string) {
	if len(args) != 0 {
		d.print("Usage: celestial_list_nodes (no arguments)")
		return
	}
	nodes, err := d.hal.Memory.ListNodes(ctx)
	if err != nil {
		d.print("Error listing nodes: %v", err)
		return
	}
	if len(nodes) == 0 {
		d.print("No resonant nodes stored.")
		return
	}
	d.print("Stored Resonant Nodes:")
	for _, n := range nodes {
		d.printNode(n)
	}
}

func (d *Dispatcher) cmdNearest(ctx context.Context, args []string) {
	if len(args) != 3 && len(args) != 4 {
		d.print("Usage: celestial_nearest <x> <y> <z> [k]")
		return
	}
	var pos [3]float32
	for i, raw := range args[:3] {
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			d.print("Error: Invalid number format for position.")
			return
		}
		pos[i] = float32(f)
	}
	k := 3
	if len(args) == 4 {
		n, err := strconv.Atoi(args[3])
		if err != nil || n <= 0 {
			d.print("Error: k must be a positive integer.")
			return
		}
		k = n
	}

	matches, err := d.hal.Memory.NearestClouds(ctx, pos, k)
	if err != nil {
		if errors.Is(err, celestial.ErrNotFound) {
			d.print("No emotion clouds stored.")
			return
		}
		d.print("Error searching clouds: %v", err)
		return
	}
	if len(matches) == 0 {
		d.print("No emotion clouds stored.")
		return
	}
	d.print("Nearest Emotion Clouds:")
	for _, m := range matches {
		d.print("- ID: %s, Distance: %.4f, Pos: [%.2f, %.2f, %.2f], Intensity: %.2f, Shape: %s",
			m.Cloud.ID, m.Distance,
			m.Cloud.Position[0], m.Cloud.Position[1], m.Cloud.Position[2],
			m.Cloud.Intensity, m.Cloud.Shape)
	}
}
