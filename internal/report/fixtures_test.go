package report

import (
	"fmt"

	"github.com/pavelanni/reporter/internal/model"
)

func numeracyQuestion(n int, strand string) model.Question {
	return model.Question{
		ID:     fmt.Sprintf("numeracy%d", n),
		Stem:   fmt.Sprintf("Question %d stem", n),
		Type:   "multiple-choice",
		Strand: strand,
		Config: model.QuestionConfig{
			Key: "option3",
			Options: []model.Option{
				{ID: "option1", Label: "A", Value: "1"},
				{ID: "option2", Label: "B", Value: "2"},
				{ID: "option3", Label: "C", Value: "3"},
				{ID: "option4", Label: "D", Value: "4"},
			},
			Hint: fmt.Sprintf("Hint %d", n),
		},
	}
}

func fakeResponse(id, studentID, assessmentID, completed string, rawScore int, answers ...string) model.StudentResponse {
	r := model.StudentResponse{
		ID:           id,
		AssessmentID: assessmentID,
		Assigned:     "14/12/2019 10:31:00",
		Started:      "16/12/2019 10:00:00",
		Completed:    completed,
		Student:      model.StudentRef{ID: studentID, YearLevel: 3},
		Results:      model.Results{RawScore: rawScore},
	}
	for i, a := range answers {
		r.Responses = append(r.Responses, model.Answer{
			QuestionID: fmt.Sprintf("numeracy%d", i+1),
			Response:   a,
		})
	}
	return r
}

// testDatasets has four questions: 1 and 2 in "number and algebra",
// 3 in "measurement and geometry", 4 in "statistics and probability".
func testDatasets(responses ...model.StudentResponse) model.Datasets {
	return model.Datasets{
		Students: []model.Student{
			{ID: "student1", FirstName: "Tony", LastName: "Stark", YearLevel: 6},
			{ID: "student2", FirstName: "Steve", LastName: "Rogers", YearLevel: 6},
		},
		Assessments: []model.Assessment{
			{ID: "assessment1", Name: "Numeracy"},
			{ID: "assessment2", Name: "Literacy"},
		},
		Questions: model.IndexQuestions([]model.Question{
			numeracyQuestion(1, "number and algebra"),
			numeracyQuestion(2, "number and algebra"),
			numeracyQuestion(3, "measurement and geometry"),
			numeracyQuestion(4, "statistics and probability"),
		}),
		StudentResponses: responses,
	}
}
