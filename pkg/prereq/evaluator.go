package prereq

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

// Result is the outcome of evaluating a requirement node: satisfied, or an
// explanation of why not. It serializes as JSON `true` or as the reason
// string, which is exactly the shape the can_take_course tool returns.
type Result struct {
	Satisfied bool
	Reason    string
}

func satisfied() Result          { return Result{Satisfied: true} }
func failed(reason string) Result { return Result{Reason: reason} }

// MarshalJSON encodes a satisfied result as true and a failure as its
// reason string.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Satisfied {
		return json.Marshal(true)
	}
	return json.Marshal(r.Reason)
}

// Evaluate checks a requirement tree against the profile. A nil node is
// vacuously satisfied. PLACEMENT, PERMISSION, SKILL and any unrecognized
// node type cannot be mechanically satisfied and always surface as a
// special-requirement explanation.
func Evaluate(node *models.RequirementNode, p *models.Profile) Result {
	if node == nil {
		return satisfied()
	}

	switch node.Type {
	case models.NodeAnd:
		return evaluateAnd(node, p)
	case models.NodeOr:
		return evaluateOr(node, p)
	case models.NodeCourse:
		return evaluateCourse(node, p)
	case models.NodeEquivalent:
		return evaluateEquivalent(node, p)
	case models.NodeStanding:
		return evaluateStanding(node, p)
	default:
		return failed(fmt.Sprintf("Special requirement needed: %s (%s)", node.Type, nodeLabel(node)))
	}
}

func evaluateAnd(node *models.RequirementNode, p *models.Profile) Result {
	var failures []string
	for _, child := range node.Children {
		if r := Evaluate(child, p); !r.Satisfied {
			failures = append(failures, r.Reason)
		}
	}
	switch len(failures) {
	case 0:
		return satisfied()
	case 1:
		return failed(failures[0])
	default:
		return failed(fmt.Sprintf("All of the following must be met: (%s)", strings.Join(failures, "; ")))
	}
}

func evaluateOr(node *models.RequirementNode, p *models.Profile) Result {
	// An empty OR is vacuously true so tree composition is preserved.
	if len(node.Children) == 0 {
		return satisfied()
	}
	var failures []string
	for _, child := range node.Children {
		r := Evaluate(child, p)
		if r.Satisfied {
			return satisfied()
		}
		failures = append(failures, r.Reason)
	}
	return failed(fmt.Sprintf("At least one of these must be met: (%s)", strings.Join(failures, " OR ")))
}

func evaluateCourse(node *models.RequirementNode, p *models.Profile) Result {
	info, ok := p.Courses[node.Course]
	if !ok {
		return failed(fmt.Sprintf("Missing course %s", node.Course))
	}
	if !IsGradeSufficient(info.Grade, node.MinGrade) {
		return failed(fmt.Sprintf("User has %s in %s, but %s or better is required",
			info.Grade, node.Course, displayMinGrade(node.MinGrade)))
	}
	return satisfied()
}

func evaluateEquivalent(node *models.RequirementNode, p *models.Profile) Result {
	var missing []string
	for _, course := range node.Courses {
		if !p.HasEquivalent(course) {
			missing = append(missing, course)
		}
	}
	if len(missing) > 0 {
		return failed(fmt.Sprintf("Missing equivalent credit for %s", strings.Join(missing, ", ")))
	}
	return satisfied()
}

func evaluateStanding(node *models.RequirementNode, p *models.Profile) Result {
	required := models.StandingRank(node.Normalized)
	have := models.StandingRank(p.Standing)
	if have < required {
		return failed(fmt.Sprintf("%s standing or higher is required", node.Normalized))
	}
	if node.SemestersLeft != nil {
		if p.SemestersLeft == nil || *p.SemestersLeft > *node.SemestersLeft {
			return failed(fmt.Sprintf("At most %d semesters remaining is required", *node.SemestersLeft))
		}
	}
	return satisfied()
}

// nodeLabel picks the most descriptive field of an advisory node.
func nodeLabel(node *models.RequirementNode) string {
	switch {
	case node.Name != "":
		return node.Name
	case node.Raw != "":
		return node.Raw
	case node.Standing != "":
		return node.Standing
	default:
		return node.Type
	}
}
