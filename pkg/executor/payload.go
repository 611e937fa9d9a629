// Package executor is the client for the external action executor: it maps a
// task's config bag into the typed action payload, posts it, and classifies
// the textual response as success or failure.
package executor

import (
	"errors"
	"fmt"

	"github.com/orbithq/orbit/pkg/models"
)

// ErrUnsupportedTaskType is returned when no payload builder exists for a
// task type. Such tasks fail locally without reaching the executor.
var ErrUnsupportedTaskType = errors.New("unsupported task type")

// Payload is the typed envelope posted to the executor. Action selects which
// of the remaining fields are populated.
type Payload struct {
	Action   string `json:"action"`
	Address  string `json:"address,omitempty"`
	Message  string `json:"message,omitempty"`
	Number   string `json:"number,omitempty"`
	Task     string `json:"task,omitempty"`
	Date     string `json:"date,omitempty"`
	Location string `json:"location,omitempty"`
	Event    string `json:"event,omitempty"`
	Channel  string `json:"channel,omitempty"`
	Project  string `json:"project,omitempty"`
	Content  string `json:"content,omitempty"`
}

// PayloadBuilder maps recognized config keys to a payload for one task type.
type PayloadBuilder func(config map[string]string) Payload

var payloadBuilders = map[models.TaskType]PayloadBuilder{
	models.TaskTypeEmail:    buildEmailPayload,
	models.TaskTypePhone:    buildPhonePayload,
	models.TaskTypeCalendar: buildCalendarPayload,
	models.TaskTypeSlack:    buildSlackPayload,
	models.TaskTypeNotion:   buildNotionPayload,
	models.TaskTypeDocument: buildNotionPayload,
}

// BuildPayload constructs the executor payload for the given task type.
func BuildPayload(taskType models.TaskType, config map[string]string) (Payload, error) {
	builder, ok := payloadBuilders[taskType]
	if !ok {
		return Payload{}, fmt.Errorf("%w: %s", ErrUnsupportedTaskType, taskType)
	}

	return builder(config), nil
}

func buildEmailPayload(config map[string]string) Payload {
	message := config["message"]
	if subject := config["subject"]; subject != "" {
		message = subject + "\n\n" + message
	}

	return Payload{
		Action:  "email",
		Address: config["recipient"],
		Message: message,
	}
}

func buildPhonePayload(config map[string]string) Payload {
	return Payload{
		Action: "phone",
		Number: config["recipient"],
		Task:   config["message"],
	}
}

func buildCalendarPayload(config map[string]string) Payload {
	event := config["title"]
	if event == "" {
		event = config["event"]
	}

	return Payload{
		Action:   "calendar",
		Date:     config["date"],
		Location: config["location"],
		Event:    event,
	}
}

func buildSlackPayload(config map[string]string) Payload {
	return Payload{
		Action:  "slack",
		Channel: config["channel"],
		Message: config["message"],
	}
}

func buildNotionPayload(config map[string]string) Payload {
	project := config["project"]
	if project == "" {
		project = config["title"]
	}

	content := config["content"]
	if content == "" {
		content = config["message"]
	}

	return Payload{
		Action:  "notion",
		Project: project,
		Content: content,
	}
}
