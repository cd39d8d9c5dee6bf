package viewer

import (
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/roboview/internal/scenegraph"
	"github.com/Faultbox/roboview/internal/urdf"
)

type pendingLoad struct {
	source   string
	packages string
}

type loadResult struct {
	seq   uint64
	model *scenegraph.Model
	err   error
}

// SetModelSource schedules a load of a new model document.
func (v *Viewer) SetModelSource(source string) {
	v.ScheduleLoad(source, v.packagesSpec)
}

// ModelSource returns the current model source.
func (v *Viewer) ModelSource() string {
	return v.source
}

// SetPackages updates the package spec, reloading the current model if
// one is set.
func (v *Viewer) SetPackages(spec string) {
	if spec == v.packagesSpec {
		return
	}
	v.packagesSpec = spec
	if v.source != "" {
		v.ScheduleLoad(v.source, spec)
	}
}

// Packages returns the current package spec.
func (v *Viewer) Packages() string {
	return v.packagesSpec
}

// ScheduleLoad requests a model load. The current model is unmounted and
// released immediately; the import itself is deferred to the next tick so
// rapid successive requests coalesce into one. Requesting the pair that
// is already mounted or loading is a no-op.
func (v *Viewer) ScheduleLoad(source, packages string) {
	if source == v.source && packages == v.packagesSpec {
		if v.model != nil || v.loading || v.pending != nil {
			return
		}
	}

	v.source = source
	v.packagesSpec = packages
	v.seq++

	v.unmount()
	v.pending = &pendingLoad{source: source, packages: packages}
	v.dirty = true

	v.emit(Event{Kind: EventModelSourceChanged})
}

// startLoad launches the deferred import. The goroutine touches no viewer
// state; it reports through the results channel tagged with the sequence
// number current at launch.
func (v *Viewer) startLoad() {
	req := *v.pending
	v.pending = nil
	v.loading = true
	seq := v.seq

	packages, base := ParsePackageSpec(req.packages)
	opts := urdf.Options{
		Packages:    packages,
		PackageBase: base,
		Fetch:       v.fetch,
		Log:         v.log,
	}

	fetch := v.fetch
	if fetch == nil {
		fetch = urdf.DefaultFetcher
	}

	go func() {
		data, err := fetch(req.source)
		if err != nil {
			v.results <- loadResult{seq: seq, err: err}
			return
		}
		model, err := urdf.Import(data, opts)
		v.results <- loadResult{seq: seq, model: model, err: err}
	}()
}

func (v *Viewer) drainResults() {
	for {
		select {
		case res := <-v.results:
			v.handleLoadResult(res)
		default:
			return
		}
	}
}

// handleLoadResult finishes a load. Results from superseded requests are
// released and dropped without any visible effect.
func (v *Viewer) handleLoadResult(res loadResult) {
	// Only one import is ever in flight, so any result means it finished,
	// stale or not. A superseding request parked in pending starts on the
	// next tick.
	v.loading = false

	if res.seq != v.seq {
		if res.model != nil {
			res.model.Release()
		}
		v.log.Debug("discarding stale load result", zap.Uint64("seq", res.seq))
		return
	}

	if res.err != nil {
		v.log.Error("model load failed",
			zap.String("source", v.source), zap.Error(res.err))
		return
	}

	v.mount(res.model)
}

// mount attaches a loaded model: resolves named materials, indexes joints,
// applies the current limit and collision policies, and reframes.
func (v *Viewer) mount(model *scenegraph.Model) {
	v.model = model
	v.modelRoot = model.Root
	v.joints = make(map[string]*scenegraph.Node)

	model.Root.Traverse(func(n *scenegraph.Node) bool {
		if n.Kind == scenegraph.KindJoint && n.Joint != nil {
			if n.Joint.Type != scenegraph.JointFixed {
				v.joints[n.Name] = n
			}
			n.Joint.IgnoreLimits = v.ignoreLimits
		}
		if n.Mesh != nil && n.Mesh.MaterialName != "" {
			mat, ok := model.Materials[n.Mesh.MaterialName]
			if !ok {
				v.log.Warn("material not found, using default",
					zap.String("material", n.Mesh.MaterialName),
					zap.String("node", n.Name))
				mat = scenegraph.DefaultMaterial()
			}
			n.Mesh.Material = mat
		}
		return true
	})

	v.world.Add(model.Root)
	v.applyCollisionVisibility()

	v.emit(Event{Kind: EventModelProcessed})
	v.emit(Event{Kind: EventGeometryLoaded})

	if v.autoRecenter {
		v.needRecenter = true
	}
	v.dirty = true

	v.log.Info("model mounted",
		zap.String("name", model.Name),
		zap.Int("joints", len(v.joints)))
}

// unmount detaches and releases the current model, if any.
func (v *Viewer) unmount() {
	if v.model == nil {
		return
	}
	v.modelRoot.Detach()
	v.model.Release()
	v.model = nil
	v.modelRoot = nil
	v.joints = make(map[string]*scenegraph.Node)
	v.dirty = true
}

// ParsePackageSpec splits a package spec into either a name-to-path map
// or a single base URL. Text after the first colon starting with "//"
// marks the whole spec as a URL; otherwise it is comma-separated
// name:path pairs.
func ParsePackageSpec(spec string) (map[string]string, string) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, ""
	}

	if _, after, found := strings.Cut(spec, ":"); found && strings.HasPrefix(after, "//") {
		return nil, spec
	}

	packages := make(map[string]string)
	for _, pair := range strings.Split(spec, ",") {
		name, path, found := strings.Cut(strings.TrimSpace(pair), ":")
		if !found || name == "" {
			continue
		}
		packages[strings.TrimSpace(name)] = strings.TrimSpace(path)
	}
	if len(packages) == 0 {
		return nil, spec
	}
	return packages, ""
}
