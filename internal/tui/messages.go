package tui

import "github.com/Veraticus/finsense/internal/model"

type ledgerLoadedMsg struct {
	err          error
	transactions []model.Transaction
	counts       model.StatusCounts
}

type categoriesLoadedMsg struct {
	err        error
	categories []model.Category
}

// actionDoneMsg reports the result of approve, recategorize or reset.
type actionDoneMsg struct {
	err    error
	action model.Action
	txn    model.Transaction
}
