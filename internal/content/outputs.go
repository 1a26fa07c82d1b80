package content

// Output kinds a generated content bundle may carry.
const (
	OutputQuestions             = "questions"
	OutputInstructions          = "instructions"
	OutputRubric                = "rubric"
	OutputChecklist             = "checklist"
	OutputParticipationCriteria = "participation_criteria"
	OutputAnswerKey             = "answer_key"
	OutputPeerEvaluation        = "peer_evaluation"
)

// TypeInfo describes an assignment type and the output kinds it produces.
type TypeInfo struct {
	Title       string
	Description string
	Outputs     []string
}

var typeInfo = map[string]TypeInfo{
	"essay": {
		Title:       "Essay",
		Description: "A written composition on a particular subject",
		Outputs:     []string{OutputQuestions, OutputInstructions, OutputRubric},
	},
	"multiple_choice_quiz": {
		Title:       "Multiple Choice Quiz",
		Description: "Questions with several possible answers to choose from",
		Outputs:     []string{OutputQuestions, OutputAnswerKey},
	},
	"short_answer_test": {
		Title:       "Short Answer Test",
		Description: "Questions requiring brief written responses",
		Outputs:     []string{OutputQuestions, OutputAnswerKey},
	},
	"discussion": {
		Title:       "Discussion",
		Description: "Guided conversation on a specific topic",
		Outputs:     []string{OutputInstructions, OutputRubric, OutputParticipationCriteria},
	},
	"case_study": {
		Title:       "Case Study",
		Description: "Analysis of a specific instance or scenario",
		Outputs:     []string{OutputInstructions, OutputRubric},
	},
	"presentation": {
		Title:       "Presentation",
		Description: "An oral delivery of prepared material",
		Outputs:     []string{OutputInstructions, OutputRubric, OutputChecklist},
	},
	"lab_report": {
		Title:       "Lab Report",
		Description: "A structured account of an experiment and its results",
		Outputs:     []string{OutputInstructions, OutputRubric, OutputChecklist},
	},
	"portfolio": {
		Title:       "Portfolio",
		Description: "A curated collection of student work",
		Outputs:     []string{OutputInstructions, OutputRubric, OutputChecklist},
	},
	"research_paper": {
		Title:       "Research Paper",
		Description: "An in-depth written investigation of a topic",
		Outputs:     []string{OutputInstructions, OutputRubric},
	},
}

// InfoFor returns the type descriptor for an assignment type identifier.
func InfoFor(assignmentType string) (TypeInfo, bool) {
	info, ok := typeInfo[assignmentType]
	return info, ok
}

// KnownTypes lists the accepted assignment type identifiers.
func KnownTypes() []string {
	types := make([]string, 0, len(typeInfo))
	for id := range typeInfo {
		types = append(types, id)
	}
	return types
}

// OutputsFor returns the output kinds configured for the assignment type,
// or nil when the type is unknown.
func OutputsFor(assignmentType string) []string {
	info, ok := typeInfo[assignmentType]
	if !ok {
		return nil
	}
	outputs := make([]string, len(info.Outputs))
	copy(outputs, info.Outputs)
	return outputs
}
