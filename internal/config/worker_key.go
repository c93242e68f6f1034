package config

type WorkerKeyStruct struct {
	StudySessionQueue string
}

var WorkerKey = &WorkerKeyStruct{
	StudySessionQueue: "study_sessions_queue",
}
