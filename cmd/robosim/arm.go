package main

import (
	"fmt"
	"math"

	"github.com/taigrr/robosim/internal/animate"
	"github.com/taigrr/robosim/internal/config"
	"github.com/taigrr/robosim/pkg/mesh"
	"github.com/taigrr/robosim/pkg/scene"
)

// Arm dimensions in world units.
const (
	baseSize       = 40.0
	jointLength    = 30.0
	jointDiameter  = 20.0
	jointSegments  = 16
	linkWidth      = 15.0
	linkHeight     = 60.0
	jointLimit     = math.Pi / 3
	baseSwingLimit = math.Pi
)

// arm is the body chain base, joint, link, joint, link, ...
type arm struct {
	base   scene.BodyID
	joints []scene.BodyID
	links  []scene.BodyID
}

// tip returns the last body of the chain.
func (a arm) tip() scene.BodyID {
	if len(a.links) > 0 {
		return a.links[len(a.links)-1]
	}
	return a.base
}

// buildArm adds a base cube and n joint/link pairs to sc. Every child sits
// on top of its parent, measured by the bounding box heights of both.
func buildArm(sc *scene.Scene, n int) (arm, error) {
	var a arm
	base, err := sc.NewBody(mesh.Cube(baseSize), "base")
	if err != nil {
		return a, err
	}
	a.base = base

	prev := base
	for i := range n {
		jm, err := mesh.Cylinder(jointLength, jointDiameter, jointSegments)
		if err != nil {
			return a, fmt.Errorf("build joint %d: %w", i, err)
		}
		paint(jm, mesh.Blue)
		joint, err := sc.NewBody(jm, fmt.Sprintf("joint%d", i))
		if err != nil {
			return a, err
		}
		if err := stackOn(sc, prev, joint); err != nil {
			return a, err
		}

		link, err := sc.NewBody(mesh.Box(linkWidth, linkHeight, linkWidth, mesh.Red), fmt.Sprintf("link%d", i))
		if err != nil {
			return a, err
		}
		if err := stackOn(sc, joint, link); err != nil {
			return a, err
		}

		a.joints = append(a.joints, joint)
		a.links = append(a.links, link)
		prev = link
	}
	return a, nil
}

// stackOn makes child a child of parent, resting on its top face.
func stackOn(sc *scene.Scene, parent, child scene.BodyID) error {
	if err := sc.AddChild(parent, child); err != nil {
		return fmt.Errorf("attach %q to %q: %w", sc.Name(child), sc.Name(parent), err)
	}
	y := sc.Bounds(parent).Height()/2 + sc.Bounds(child).Height()/2
	return sc.SetPosition(child, 0, y, 0)
}

func paint(m *mesh.Mesh, argb uint32) {
	for i := range m.Vertices {
		m.Vertices[i].Color = argb
	}
}

// rigArm swings the base about Y and bends every joint about its cylinder
// axis.
func rigArm(r *animate.Rig, a arm) error {
	if _, err := r.Add(a.base, animate.AxisY, baseSwingLimit); err != nil {
		return err
	}
	for _, j := range a.joints {
		if _, err := r.Add(j, animate.AxisX, jointLimit); err != nil {
			return err
		}
	}
	return nil
}

// loadModel adds the configured glTF model as an extra root body.
func loadModel(sc *scene.Scene, cfg config.SceneConfig) (scene.BodyID, error) {
	argb, err := config.ParseColor(cfg.ModelColor)
	if err != nil {
		return scene.NoBody, err
	}
	m, err := mesh.LoadGLB(cfg.Model, argb)
	if err != nil {
		return scene.NoBody, fmt.Errorf("load model: %w", err)
	}
	id, err := sc.NewBody(m, "model")
	if err != nil {
		return scene.NoBody, err
	}
	p := cfg.ModelPosition
	if err := sc.SetPosition(id, p[0], p[1], p[2]); err != nil {
		return scene.NoBody, err
	}
	return id, nil
}
