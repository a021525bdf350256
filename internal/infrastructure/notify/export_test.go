package notify

// NewKafkaNotifierWithWriter expone el constructor interno a los tests externos.
var NewKafkaNotifierWithWriter = newKafkaNotifierWithWriter
