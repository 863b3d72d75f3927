package snapshot

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"stride/ent"
)

// Wire layout, proto3 semantics. Snapshot: 1 tick varint, 2 time fixed64,
// 3 repeated entity message. Entity: 1 id varint, 2..4 position fixed32,
// 5 vertical velocity fixed32, 6 grounded varint, 7 jump state varint.
const (
	fTick = 1
	fTime = 2
	fEnts = 3

	fEntID   = 1
	fEntPosX = 2
	fEntPosY = 3
	fEntPosZ = 4
	fEntVel  = 5
	fEntGnd  = 6
	fEntJump = 7
)

// Encode serializes a snapshot to protobuf wire format.
func Encode(s TickSnapshot) []byte {
	b := make([]byte, 0, 16+32*len(s.Ents))
	b = protowire.AppendTag(b, fTick, protowire.VarintType)
	b = protowire.AppendVarint(b, s.Tick)
	b = protowire.AppendTag(b, fTime, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(s.Time))
	for _, e := range s.Ents {
		b = protowire.AppendTag(b, fEnts, protowire.BytesType)
		b = protowire.AppendBytes(b, appendEntity(nil, e))
	}
	return b
}

func appendEntity(b []byte, e EntityState) []byte {
	b = protowire.AppendTag(b, fEntID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(e.Ent))
	b = protowire.AppendTag(b, fEntPosX, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, math.Float32bits(e.Pos.X))
	b = protowire.AppendTag(b, fEntPosY, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, math.Float32bits(e.Pos.Y))
	b = protowire.AppendTag(b, fEntPosZ, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, math.Float32bits(e.Pos.Z))
	b = protowire.AppendTag(b, fEntVel, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, math.Float32bits(e.VerticalVel))
	if e.Grounded {
		b = protowire.AppendTag(b, fEntGnd, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	if e.Jump != 0 {
		b = protowire.AppendTag(b, fEntJump, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(e.Jump))
	}
	return b
}

// Decode parses a snapshot produced by Encode. Unknown fields are skipped
// so the format can grow.
func Decode(b []byte) (TickSnapshot, error) {
	var s TickSnapshot
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return s, protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == fTick && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return s, protowire.ParseError(m)
			}
			s.Tick = v
			b = b[m:]
		case num == fTime && typ == protowire.Fixed64Type:
			v, m := protowire.ConsumeFixed64(b)
			if m < 0 {
				return s, protowire.ParseError(m)
			}
			s.Time = math.Float64frombits(v)
			b = b[m:]
		case num == fEnts && typ == protowire.BytesType:
			raw, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return s, protowire.ParseError(m)
			}
			e, err := decodeEntity(raw)
			if err != nil {
				return s, err
			}
			s.Ents = append(s.Ents, e)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return s, protowire.ParseError(m)
			}
			b = b[m:]
		}
	}
	return s, nil
}

func decodeEntity(b []byte) (EntityState, error) {
	var e EntityState
	f32 := func(v uint32) float32 { return math.Float32frombits(v) }
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return e, protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == fEntID && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return e, protowire.ParseError(m)
			}
			e.Ent = ent.ID(v)
			b = b[m:]
		case typ == protowire.Fixed32Type && num >= fEntPosX && num <= fEntVel:
			v, m := protowire.ConsumeFixed32(b)
			if m < 0 {
				return e, protowire.ParseError(m)
			}
			switch num {
			case fEntPosX:
				e.Pos.X = f32(v)
			case fEntPosY:
				e.Pos.Y = f32(v)
			case fEntPosZ:
				e.Pos.Z = f32(v)
			case fEntVel:
				e.VerticalVel = f32(v)
			}
			b = b[m:]
		case num == fEntGnd && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return e, protowire.ParseError(m)
			}
			e.Grounded = v != 0
			b = b[m:]
		case num == fEntJump && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return e, protowire.ParseError(m)
			}
			e.Jump = uint8(v)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return e, protowire.ParseError(m)
			}
			b = b[m:]
		}
	}
	return e, nil
}
