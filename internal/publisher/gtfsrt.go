package publisher

import (
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"metrogo/internal/sim"
)

// BuildFeed converts a fleet snapshot into a GTFS-realtime VehiclePositions
// feed. Vehicles without a resolvable position are left out.
func BuildFeed(r *sim.Resolver, fleet []sim.Vehicle, at time.Time) *gtfs.FeedMessage {
	ts := uint64(at.Unix())
	feed := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Incrementality:      gtfs.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(ts),
		},
	}
	for _, v := range fleet {
		msg, ok := NewPositionMessage(r, v, at)
		if !ok {
			continue
		}
		var direction uint32
		if v.Direction == sim.Backward {
			direction = 1
		}
		feed.Entity = append(feed.Entity, &gtfs.FeedEntity{
			Id: proto.String(v.ID),
			Vehicle: &gtfs.VehiclePosition{
				Trip: &gtfs.TripDescriptor{
					RouteId:     proto.String(v.LineID),
					DirectionId: proto.Uint32(direction),
				},
				Vehicle: &gtfs.VehicleDescriptor{
					Id:    proto.String(v.ID),
					Label: proto.String(v.Label),
				},
				Position: &gtfs.Position{
					Latitude:  proto.Float32(float32(msg.Lat)),
					Longitude: proto.Float32(float32(msg.Lng)),
					Bearing:   proto.Float32(float32(msg.Bearing)),
				},
				Timestamp: proto.Uint64(ts),
			},
		})
	}
	return feed
}
