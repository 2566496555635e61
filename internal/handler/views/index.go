package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/studybuddy/internal/i18n"
	"github.com/pavelanni/studybuddy/internal/model"
)

type option struct {
	value   string
	labelID string
}

var (
	genderOptions = []option{
		{string(model.GenderMale), "OptionMale"},
		{string(model.GenderFemale), "OptionFemale"},
	}
	dietOptions = []option{
		{string(model.DietPoor), "OptionPoor"},
		{string(model.DietAverage), "OptionAverage"},
		{string(model.DietGood), "OptionGood"},
	}
	yesNoOptions = []option{
		{string(model.AnswerNo), "OptionNo"},
		{string(model.AnswerYes), "OptionYes"},
	}
	educationOptions = []option{
		{string(model.EducationHighSchool), "OptionHighSchool"},
		{string(model.EducationBachelor), "OptionBachelor"},
		{string(model.EducationMaster), "OptionMaster"},
	}
)

// IndexPage renders the two-tab main page.
func IndexPage(data PageData) templ.Component {
	if data.Tab != TabChat {
		data.Tab = TabPredict
	}
	return Layout(templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="layout"><aside>`)
		h.component(ctx, sidebar(data))
		h.raw(`</aside><main><nav class="tabs">`)
		tabLink(ctx, h, data, TabPredict, "TabPredict")
		tabLink(ctx, h, data, TabChat, "TabChat")
		h.raw(`</nav><div class="panel">`)
		if data.Error != "" {
			h.raw(`<p class="error">`)
			h.text(data.Error)
			h.raw(`</p>`)
		}
		if data.Tab == TabChat {
			h.component(ctx, chatPanel(data))
		} else {
			h.component(ctx, predictPanel(data))
		}
		h.raw(`</div></main></div>`)
		return h.err
	}))
}

func tabLink(ctx context.Context, h *htmlWriter, data PageData, tab, labelID string) {
	h.raw(`<a href="`)
	h.href(data.BasePath + "/?tab=" + tab)
	h.raw(`"`)
	if data.Tab == tab {
		h.raw(` class="active"`)
	}
	h.raw(`>`)
	h.text(appI18n.T(ctx, labelID))
	h.raw(`</a>`)
}

func formStart(h *htmlWriter, data PageData, action string) {
	h.raw(`<form method="post" action="`)
	h.href(data.BasePath + action)
	h.raw(`"><input type="hidden" name="csrf_token" value="`)
	h.text(data.CSRFToken)
	h.raw(`">`)
}

func selectField(ctx context.Context, h *htmlWriter, labelID, name, current string, opts []option) {
	h.raw(`<label>`)
	h.text(appI18n.T(ctx, labelID))
	h.raw(`<select name="`, name, `"><option value="">`)
	h.text(appI18n.T(ctx, "OptionSelect"))
	h.raw(`</option>`)
	for _, o := range opts {
		h.raw(`<option value="`)
		h.text(o.value)
		h.raw(`"`)
		if o.value == current {
			h.raw(` selected`)
		}
		h.raw(`>`)
		h.text(appI18n.T(ctx, o.labelID))
		h.raw(`</option>`)
	}
	h.raw(`</select></label>`)
}

func numberField(ctx context.Context, h *htmlWriter, labelID, name, minV, maxV, step, value string) {
	h.raw(`<label>`)
	h.text(appI18n.T(ctx, labelID))
	h.raw(`<input type="number" name="`, name, `" min="`, minV, `" max="`, maxV, `" step="`, step, `" value="`)
	h.text(value)
	h.raw(`"></label>`)
}

func sidebar(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		p := data.Profile

		h.raw(`<h3>`)
		h.text(appI18n.T(ctx, "StudentDetails"))
		h.raw(`</h3>`)
		formStart(h, data, "/predict")
		h.raw(`<input type="hidden" name="tab" value="`)
		h.text(data.Tab)
		h.raw(`">`)
		selectField(ctx, h, "FieldGender", "gender", string(p.Gender), genderOptions)
		numberField(ctx, h, "FieldStudyHours", "study_hours", "0", "12", "0.5", formatNumber(p.StudyHours))
		numberField(ctx, h, "FieldAttendance", "attendance", "0", "100", "1", strconv.Itoa(p.Attendance))
		numberField(ctx, h, "FieldMentalHealth", "mental_health", "1", "10", "1", strconv.Itoa(p.MentalHealth))
		numberField(ctx, h, "FieldSleepHours", "sleep_hours", "0", "12", "0.5", formatNumber(p.SleepHours))
		selectField(ctx, h, "FieldDiet", "diet", string(p.Diet), dietOptions)
		selectField(ctx, h, "FieldPartTimeJob", "part_time_job", string(p.PartTimeJob), yesNoOptions)
		selectField(ctx, h, "FieldParentEducation", "parent_education", string(p.ParentEducation), educationOptions)
		selectField(ctx, h, "FieldExtracurricular", "extracurricular", string(p.Extracurricular), yesNoOptions)
		numberField(ctx, h, "FieldSocialMedia", "social_media_hours", "0", "8", "0.5", formatNumber(p.SocialMediaHours))
		h.raw(`<button type="submit">`)
		h.text(appI18n.T(ctx, "PredictButton"))
		h.raw(`</button><button type="submit" formaction="`)
		h.href(data.BasePath + "/profile")
		h.raw(`">`)
		h.text(appI18n.T(ctx, "SaveProfile"))
		h.raw(`</button></form>`)

		h.raw(`<h3>`)
		h.text(appI18n.T(ctx, "TodaysTask"))
		h.raw(`</h3>`)
		formStart(h, data, "/task")
		h.raw(`<input type="hidden" name="tab" value="`)
		h.text(data.Tab)
		h.raw(`"><textarea name="task" rows="4" placeholder="`)
		h.text(appI18n.T(ctx, "TaskPlaceholder"))
		h.raw(`">`)
		h.text(data.DailyTask)
		h.raw(`</textarea><button type="submit">`)
		h.text(appI18n.T(ctx, "SaveTask"))
		h.raw(`</button></form>`)

		formStart(h, data, "/session/end")
		h.raw(`<button type="submit">`)
		h.text(appI18n.T(ctx, "EndSession"))
		h.raw(`</button></form>`)
		return h.err
	})
}

func predictPanel(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h2>`)
		h.text(appI18n.T(ctx, "StudentProfile"))
		h.raw(`</h2>`)

		a := data.Assessment
		if a == nil {
			if data.Score != nil {
				h.raw(`<p class="muted">`)
				h.text(appI18n.Td(ctx, "PredictedScore", map[string]any{"Score": appI18n.Score(ctx, *data.Score)}))
				h.raw(`</p>`)
			}
			return h.err
		}

		h.raw(`<p class="score">`)
		h.text(appI18n.Td(ctx, "PredictedScore", map[string]any{"Score": appI18n.Score(ctx, a.Score)}))
		h.raw(`</p>`)
		if a.Motivation != "" {
			h.raw(`<h3>`)
			h.text(appI18n.T(ctx, "Motivation"))
			h.raw(`</h3><p><em>`)
			h.text(a.Motivation)
			h.raw(`</em></p>`)
		}

		h.raw(`<h3>`)
		h.text(appI18n.T(ctx, "LifestyleImpact"))
		h.raw(`</h3><ul>`)
		for _, msg := range a.Summary.Messages {
			h.raw(`<li>`)
			h.text(msg)
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
		if a.Summary.Warning != "" {
			h.raw(`<p class="warning">`)
			h.text(a.Summary.Warning)
			h.raw(`</p>`)
		}

		h.raw(`<h3>`)
		h.text(appI18n.T(ctx, "StudyPlanHeading"))
		h.raw(`</h3><p><strong>`)
		h.text(appI18n.T(ctx, "RecommendedStudy"))
		h.raw(`:</strong> `)
		h.text(a.Plan.RecommendedHours)
		h.raw(`</p><h4>`)
		h.text(appI18n.T(ctx, "StudyPlan"))
		h.raw(`</h4><ol>`)
		for _, step := range a.Plan.Steps {
			h.raw(`<li>`)
			h.text(step)
			h.raw(`</li>`)
		}
		h.raw(`</ol><h4>`)
		h.text(appI18n.T(ctx, "DailyTimetable"))
		h.raw(`</h4><dl>`)
		for _, b := range a.Plan.Timetable {
			h.raw(`<dt><strong>`)
			h.text(b.Period)
			h.raw(`</strong></dt><dd>`)
			h.text(b.Text)
			h.raw(`</dd>`)
		}
		h.raw(`</dl>`)
		return h.err
	})
}

func chatPanel(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h2>`)
		h.text(appI18n.T(ctx, "ChatHeading"))
		h.raw(`</h2>`)
		if data.Score == nil {
			h.raw(`<p class="muted">`)
			h.text(appI18n.T(ctx, "ChatNoScore"))
			h.raw(`</p>`)
		}
		h.raw(`<p class="muted">`)
		h.text(appI18n.Tp(ctx, "MessageCount", len(data.Transcript)))
		h.raw(`</p>`)

		if len(data.Transcript) == 0 {
			h.raw(`<p class="muted">`)
			h.text(appI18n.T(ctx, "ChatEmpty"))
			h.raw(`</p>`)
		}
		for _, turn := range data.Transcript {
			speaker := "RoleAssistant"
			if turn.Role == model.RoleUser {
				speaker = "RoleUser"
			}
			h.raw(`<div class="turn `)
			h.text(string(turn.Role))
			h.raw(`"><strong>`)
			h.text(appI18n.T(ctx, speaker))
			h.raw(`:</strong> `)
			h.text(turn.Text)
			h.raw(`</div>`)
		}

		formStart(h, data, "/chat")
		h.raw(`<textarea name="question" rows="3" placeholder="`)
		h.text(appI18n.T(ctx, "ChatPlaceholder"))
		h.raw(`"></textarea><button type="submit">`)
		h.text(appI18n.T(ctx, "ChatSend"))
		h.raw(`</button></form><p><a href="`)
		h.href(data.BasePath + "/chat/export")
		h.raw(`">`)
		h.text(appI18n.T(ctx, "ChatExport"))
		h.raw(`</a></p>`)
		return h.err
	})
}
