package interceptlogic

import (
	orb "github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// TrackRecorder samples agent positions while an episode runs and exports
// them, together with the event log, as GeoJSON.
type TrackRecorder struct {
	BaseObserver

	// Every is the sampling period in ticks
	Every int

	order  []string
	kinds  map[string]AgentKind
	tracks map[string]orb.LineString
	events []recordedEvent
}

type recordedEvent struct {
	Event
	At Vector
}

func NewTrackRecorder(every int) *TrackRecorder {
	if every < 1 {
		every = 1
	}
	return &TrackRecorder{
		Every:  every,
		kinds:  make(map[string]AgentKind),
		tracks: make(map[string]orb.LineString),
	}
}

// Sample records the current position of every agent still in play
func (tr *TrackRecorder) Sample(w *World) {
	for _, b := range w.Bodies() {
		a := b.Base()
		if !a.Active {
			continue
		}
		if _, ok := tr.tracks[a.ID]; !ok {
			tr.order = append(tr.order, a.ID)
			tr.kinds[a.ID] = a.Kind
		}
		tr.tracks[a.ID] = append(tr.tracks[a.ID], a.Position.Point())
	}
}

func (tr *TrackRecorder) OnTick(w *World) {
	if w.Ticks == 1 || w.Ticks%tr.Every == 0 {
		tr.Sample(w)
	}
}

// OnEvent pins the event at the target's position
func (tr *TrackRecorder) OnEvent(w *World, e Event) {
	at := w.Params.Asset
	if t := FindTarget(w.Targets, e.TargetID); t != nil {
		at = t.Position
	}
	tr.events = append(tr.events, recordedEvent{Event: e, At: at})
}

// Track returns the sampled path of one agent
func (tr *TrackRecorder) Track(id string) orb.LineString {
	return tr.tracks[id]
}

// FeatureCollection builds one LineString per agent, one Point per event
// and, if mission has a zone, the zone polygon. With a zone, each event is
// flagged in_zone when it happened inside it.
func (tr *TrackRecorder) FeatureCollection(session string, mission *Mission) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if mission != nil && mission.Zone != nil {
		f := geojson.NewFeature(mission.Zone)
		f.Properties["kind"] = "zone"
		f.Properties["description"] = mission.Description
		fc.Append(f)
	}

	for _, id := range tr.order {
		f := geojson.NewFeature(tr.tracks[id])
		f.Properties["id"] = id
		f.Properties["kind"] = string(tr.kinds[id])
		f.Properties["session"] = session
		fc.Append(f)
	}

	for _, e := range tr.events {
		f := geojson.NewFeature(e.At.Point())
		f.Properties["kind"] = string(e.Kind)
		f.Properties["time"] = e.Time
		f.Properties["target_id"] = e.TargetID
		if e.InterceptorID != "" {
			f.Properties["interceptor_id"] = e.InterceptorID
		}
		if mission != nil && mission.Zone != nil {
			f.Properties["in_zone"] = mission.Contains(e.At)
		}
		fc.Append(f)
	}
	return fc
}
