package config

type WorkerKeyStruct struct {
	PersistRatingsQueue string
	ActivityEventsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistRatingsQueue: "persist_ratings_queue",
	ActivityEventsQueue: "activity_events_queue",
}
