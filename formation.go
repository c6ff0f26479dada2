package interceptlogic

// Butterfly formation, offsets in metres from the sensor node:
//
//	    [0]     [1]        lead pair
//	[2]             [3]    flank pair
//	    [4]     [5]        rear pair
var butterfly = []struct {
	Offset Vector
	Role   string
}{
	{Vector{-150, 300}, "Lead-Left"},
	{Vector{150, 300}, "Lead-Right"},
	{Vector{-400, 0}, "Flank-Left"},
	{Vector{400, 0}, "Flank-Right"},
	{Vector{-150, -300}, "Rear-Left"},
	{Vector{150, -300}, "Rear-Right"},
}

// FormationSlots is the number of positions in the formation
var FormationSlots = len(butterfly)

// FormationOffset returns the offset of slot i, zero outside the formation
func FormationOffset(i int) Vector {
	if i < 0 || i >= len(butterfly) {
		return Zero
	}
	return butterfly[i].Offset
}

// FormationPosition is the absolute position of slot i around origin
func FormationPosition(origin Vector, i int) Vector {
	return origin.Add(FormationOffset(i))
}

func FormationRole(i int) string {
	if i < 0 || i >= len(butterfly) {
		return "Unknown"
	}
	return butterfly[i].Role
}

// NewFormation creates up to FormationSlots idle interceptors, one per slot
func NewFormation(ids *IDGenerator, origin Vector, count int, spec InterceptorSpec) []*Interceptor {
	if count > len(butterfly) {
		count = len(butterfly)
	}
	out := make([]*Interceptor, 0, count)
	for i := 0; i < count; i++ {
		offset := FormationOffset(i)
		out = append(out, NewInterceptor(ids.Next(InterceptorAgent), origin.Add(offset), offset, spec))
	}
	return out
}

// HoldFormation snaps idle interceptors back onto their slot around origin.
// Busy ones are left alone.
func HoldFormation(interceptors []*Interceptor, origin Vector) {
	for i, ic := range interceptors {
		if ic.IsIdle() {
			ic.Position = FormationPosition(origin, i)
		}
	}
}
