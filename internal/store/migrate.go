package store

import (
	"context"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableGroups           = "category_groups"
	tableCategories       = "categories"
	tableQuestions        = "questions"
	tableAnswers          = "answers"
	tableSessions         = "sessions"
	tableSessionQuestions = "session_questions"
	tableTeamScores       = "team_scores"
	tableUsedHelps        = "used_helps"
	tableQuestionUsage    = "question_usage"
)

var (
	groupsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString, Size: 50},
		{Name: "description", Type: field.TypeString, Size: 200, Nullable: true},
		{Name: "color", Type: field.TypeString, Size: 20, Nullable: true},
		{Name: "display_order", Type: field.TypeInt, Default: 0},
		{Name: "is_active", Type: field.TypeBool, Default: true},
	}
	groupsTable = &schema.Table{
		Name:       tableGroups,
		Columns:    groupsColumns,
		PrimaryKey: []*schema.Column{groupsColumns[0]},
	}

	categoriesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString, Size: 100},
		{Name: "description", Type: field.TypeString, Size: 500, Nullable: true},
		{Name: "image_url", Type: field.TypeString, Nullable: true},
		{Name: "disable_mcq", Type: field.TypeBool, Default: false},
		{Name: "group_id", Type: field.TypeInt, Nullable: true},
	}
	categoriesTable = &schema.Table{
		Name:       tableCategories,
		Columns:    categoriesColumns,
		PrimaryKey: []*schema.Column{categoriesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "categories_category_groups_categories",
				Columns:    []*schema.Column{categoriesColumns[5]},
				RefColumns: []*schema.Column{groupsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
	}

	questionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "text", Type: field.TypeString, Size: 2147483647},
		{Name: "image_url", Type: field.TypeString, Nullable: true},
		{Name: "difficulty", Type: field.TypeInt},
		{Name: "points", Type: field.TypeInt},
		{Name: "category_id", Type: field.TypeInt},
	}
	questionsTable = &schema.Table{
		Name:       tableQuestions,
		Columns:    questionsColumns,
		PrimaryKey: []*schema.Column{questionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "questions_categories_questions",
				Columns:    []*schema.Column{questionsColumns[5]},
				RefColumns: []*schema.Column{categoriesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "question_category_id_difficulty",
				Columns: []*schema.Column{questionsColumns[5], questionsColumns[3]},
			},
		},
	}

	answersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "text", Type: field.TypeString},
		{Name: "image_url", Type: field.TypeString, Nullable: true},
		{Name: "is_correct", Type: field.TypeBool, Default: false},
		{Name: "question_id", Type: field.TypeInt},
	}
	answersTable = &schema.Table{
		Name:       tableAnswers,
		Columns:    answersColumns,
		PrimaryKey: []*schema.Column{answersColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "answers_questions_answers",
				Columns:    []*schema.Column{answersColumns[4]},
				RefColumns: []*schema.Column{questionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "answer_question_id",
				Columns: []*schema.Column{answersColumns[4]},
			},
		},
	}

	sessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString},
		{Name: "current_turn_team", Type: field.TypeString, Nullable: true},
		{Name: "modifier", Type: field.TypeString, Nullable: true},
		{Name: "created_at", Type: field.TypeInt64},
	}
	sessionsTable = &schema.Table{
		Name:       tableSessions,
		Columns:    sessionsColumns,
		PrimaryKey: []*schema.Column{sessionsColumns[0]},
	}

	sessionQuestionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "position", Type: field.TypeInt},
		{Name: "is_scored", Type: field.TypeBool, Default: false},
		{Name: "team_answered", Type: field.TypeString, Nullable: true},
		{Name: "session_id", Type: field.TypeInt},
		{Name: "question_id", Type: field.TypeInt},
	}
	sessionQuestionsTable = &schema.Table{
		Name:       tableSessionQuestions,
		Columns:    sessionQuestionsColumns,
		PrimaryKey: []*schema.Column{sessionQuestionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "session_questions_sessions_session_questions",
				Columns:    []*schema.Column{sessionQuestionsColumns[4]},
				RefColumns: []*schema.Column{sessionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "session_questions_questions_session_questions",
				Columns:    []*schema.Column{sessionQuestionsColumns[5]},
				RefColumns: []*schema.Column{questionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "sessionquestion_session_id_question_id",
				Unique:  true,
				Columns: []*schema.Column{sessionQuestionsColumns[4], sessionQuestionsColumns[5]},
			},
			{
				Name:    "sessionquestion_question_id",
				Columns: []*schema.Column{sessionQuestionsColumns[5]},
			},
		},
	}

	teamScoresColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "slot", Type: field.TypeInt},
		{Name: "team_name", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt, Default: 0},
		{Name: "session_id", Type: field.TypeInt},
	}
	teamScoresTable = &schema.Table{
		Name:       tableTeamScores,
		Columns:    teamScoresColumns,
		PrimaryKey: []*schema.Column{teamScoresColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "team_scores_sessions_team_scores",
				Columns:    []*schema.Column{teamScoresColumns[4]},
				RefColumns: []*schema.Column{sessionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "teamscore_session_id_slot",
				Unique:  true,
				Columns: []*schema.Column{teamScoresColumns[4], teamScoresColumns[1]},
			},
		},
	}

	usedHelpsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "team_name", Type: field.TypeString},
		{Name: "help_type", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeInt, Nullable: true},
		{Name: "is_consumed", Type: field.TypeBool, Default: false},
		{Name: "session_id", Type: field.TypeInt},
	}
	usedHelpsTable = &schema.Table{
		Name:       tableUsedHelps,
		Columns:    usedHelpsColumns,
		PrimaryKey: []*schema.Column{usedHelpsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "used_helps_sessions_used_helps",
				Columns:    []*schema.Column{usedHelpsColumns[5]},
				RefColumns: []*schema.Column{sessionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "usedhelp_session_id_team_name_help_type",
				Columns: []*schema.Column{usedHelpsColumns[5], usedHelpsColumns[1], usedHelpsColumns[2]},
			},
		},
	}

	// question_usage survives session deletion: session_id is not a foreign key.
	questionUsageColumns = []*schema.Column{
		{Name: "question_id", Type: field.TypeInt},
		{Name: "session_id", Type: field.TypeInt, Nullable: true},
		{Name: "used_at", Type: field.TypeInt64},
	}
	questionUsageTable = &schema.Table{
		Name:       tableQuestionUsage,
		Columns:    questionUsageColumns,
		PrimaryKey: []*schema.Column{questionUsageColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "question_usage_questions_usage",
				Columns:    []*schema.Column{questionUsageColumns[0]},
				RefColumns: []*schema.Column{questionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "questionusage_session_id",
				Columns: []*schema.Column{questionUsageColumns[1]},
			},
		},
	}

	// tables lists every table in dependency order.
	tables = []*schema.Table{
		groupsTable,
		categoriesTable,
		questionsTable,
		answersTable,
		sessionsTable,
		sessionQuestionsTable,
		teamScoresTable,
		usedHelpsTable,
		questionUsageTable,
	}
)

func init() {
	categoriesTable.ForeignKeys[0].RefTable = groupsTable
	questionsTable.ForeignKeys[0].RefTable = categoriesTable
	answersTable.ForeignKeys[0].RefTable = questionsTable
	sessionQuestionsTable.ForeignKeys[0].RefTable = sessionsTable
	sessionQuestionsTable.ForeignKeys[1].RefTable = questionsTable
	teamScoresTable.ForeignKeys[0].RefTable = sessionsTable
	usedHelpsTable.ForeignKeys[0].RefTable = sessionsTable
	questionUsageTable.ForeignKeys[0].RefTable = questionsTable
}

// migrate creates missing tables, columns and indexes.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}
