package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orbithq/orbit/pkg/events"
	"github.com/orbithq/orbit/pkg/models"
)

type templateTask struct {
	taskType      models.TaskType
	title         string
	description   string
	estimatedTime string
	config        map[string]string
}

type template struct {
	name        string
	description string
	tasks       []templateTask
}

// GenerateWorkflow synthesizes a template workflow from a free-text prompt
// using keyword rules (case-insensitive, first match wins) and inserts it as
// the active workflow, demoting any previously active one. Returns the new
// workflow's id.
func (s *Service) GenerateWorkflow(ctx context.Context, prompt string) (string, error) {
	tpl := matchTemplate(prompt)

	workflow := &models.Workflow{
		ID:          "workflow-" + uuid.New().String(),
		Name:        tpl.name,
		Description: tpl.description,
		Status:      models.WorkflowStatusActive,
		Priority:    models.PriorityMedium,
		GeneratedAt: time.Now(),
		Tasks:       make([]*models.Task, 0, len(tpl.tasks)),
		Notes:       []*models.Note{},
	}

	for i, entry := range tpl.tasks {
		workflow.Tasks = append(workflow.Tasks, &models.Task{
			ID:            uuid.New().String(),
			Type:          entry.taskType,
			Title:         entry.title,
			Description:   entry.description,
			Priority:      models.PriorityMedium,
			EstimatedTime: entry.estimatedTime,
			Status:        models.TaskStatusPending,
			Order:         i + 1,
			Position:      models.Position{X: 120 + float64(i)*220, Y: 200},
			Config:        entry.config,
		})
	}

	s.store.Dispatch(ctx, events.AddWorkflow{Workflow: workflow})

	s.logger.InfoContext(ctx, "Generated workflow from prompt", "workflow_id", workflow.ID, "name", tpl.name)

	return workflow.ID, nil
}

func matchTemplate(prompt string) template {
	lowered := strings.ToLower(prompt)

	switch {
	case strings.Contains(lowered, "onboarding"):
		return template{
			name:        "Onboarding",
			description: "Onboarding plan generated from: " + prompt,
			tasks: []templateTask{
				{
					taskType:      models.TaskTypeDocument,
					title:         "Create onboarding plan",
					description:   "Draft the onboarding plan document",
					estimatedTime: "30 min",
					config: map[string]string{
						"project": "Onboarding",
						"content": "Onboarding plan for the new team member",
					},
				},
				{
					taskType:      models.TaskTypeEmail,
					title:         "Send welcome email",
					description:   "Welcome the new team member",
					estimatedTime: "10 min",
					config: map[string]string{
						"recipient": "",
						"subject":   "Welcome aboard",
						"message":   "Welcome to the team! Your onboarding plan is ready.",
					},
				},
				{
					taskType:      models.TaskTypeSlack,
					title:         "Notify team",
					description:   "Announce the new team member",
					estimatedTime: "5 min",
					config: map[string]string{
						"channel": "#general",
						"message": "A new team member is starting their onboarding today.",
					},
				},
			},
		}
	case strings.Contains(lowered, "project") || strings.Contains(lowered, "plan"):
		return template{
			name:        "Project Plan",
			description: "Project plan generated from: " + prompt,
			tasks: []templateTask{
				{
					taskType:      models.TaskTypeDocument,
					title:         "Create project plan",
					description:   "Draft the project plan document",
					estimatedTime: "45 min",
					config: map[string]string{
						"project": "Project Plan",
						"content": "Project plan outline with milestones and owners",
					},
				},
				{
					taskType:      models.TaskTypeSlack,
					title:         "Share update",
					description:   "Post the plan to the project channel",
					estimatedTime: "5 min",
					config: map[string]string{
						"channel": "#projects",
						"message": "The project plan draft is ready for review.",
					},
				},
			},
		}
	case strings.Contains(lowered, "meeting"):
		return template{
			name:        "Meeting Prep",
			description: "Meeting preparation generated from: " + prompt,
			tasks: []templateTask{
				{
					taskType:      models.TaskTypeDocument,
					title:         "Create agenda",
					description:   "Draft the meeting agenda",
					estimatedTime: "20 min",
					config: map[string]string{
						"project": "Meeting Agenda",
						"content": "Agenda items and discussion points",
					},
				},
				{
					taskType:      models.TaskTypeEmail,
					title:         "Send meeting invite",
					description:   "Invite the attendees",
					estimatedTime: "10 min",
					config: map[string]string{
						"recipient": "",
						"subject":   "Meeting invite",
						"message":   "You are invited. The agenda is attached.",
					},
				},
			},
		}
	default:
		return template{
			name:        "Outreach",
			description: "Workflow generated from: " + prompt,
			tasks: []templateTask{
				{
					taskType:      models.TaskTypeDocument,
					title:         "Create documentation",
					description:   "Capture the context in a document",
					estimatedTime: "30 min",
					config: map[string]string{
						"project": "Documentation",
						"content": prompt,
					},
				},
				{
					taskType:      models.TaskTypeEmail,
					title:         "Send outreach email",
					description:   "Reach out with the prepared context",
					estimatedTime: "10 min",
					config: map[string]string{
						"recipient": "",
						"subject":   "Reaching out",
						"message":   prompt,
					},
				},
			},
		}
	}
}
