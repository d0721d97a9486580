package tui

import (
	"errors"
	"strings"

	"github.com/theirongolddev/wishjar/internal/cli"
	"github.com/theirongolddev/wishjar/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type keyValues struct {
	Key      string
	Remember bool
}

type addValues struct {
	Name  string
	Price string
}

func newKeyForm(vals *keyValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("User key").
				Description("Any phrase you will remember. The same key loads your list on every device.").
				EchoMode(huh.EchoModePassword).
				Value(&vals.Key).
				Validate(func(s string) error {
					if model.NormalizeKey(s) == "" {
						return errors.New("a key is required")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Remember this key in the config file?").
				Value(&vals.Remember),
		),
	).WithShowHelp(false)
}

func newAddForm(vals *addValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What do you wish for?").
				Value(&vals.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Price").
				Placeholder("300").
				Value(&vals.Price).
				Validate(func(s string) error {
					_, err := cli.ParsePrice(s)
					return err
				}),
		),
	).WithShowHelp(false)
}

func (a App) updateKeyForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		return a, tea.Quit
	}

	form, cmd := a.keyForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.keyForm = f
	}

	switch a.keyForm.State {
	case huh.StateCompleted:
		a.keyForm = nil
		a.key = model.NormalizeKey(a.keyVals.Key)
		if a.keyVals.Remember {
			a.cfg.General.UserKey = a.key
			if err := a.saveConfig(a.cfg); err != nil {
				a.logger.Warn("remembering key failed", "error", err)
			}
		}
		a.loading = true
		return a, tea.Batch(loadCmd(a.ctrl, a.key), a.spinner.Tick)
	case huh.StateAborted:
		return a, tea.Quit
	}
	return a, cmd
}

func (a App) openAddForm() (tea.Model, tea.Cmd) {
	a.addVals = &addValues{}
	a.addForm = newAddForm(a.addVals)
	if a.width > 0 {
		a.addForm = a.addForm.WithWidth(min(a.width-10, 60))
	}
	return a, a.addForm.Init()
}

func (a App) updateAddForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		a.addForm = nil
		return a, nil
	}

	form, cmd := a.addForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.addForm = f
	}

	switch a.addForm.State {
	case huh.StateCompleted:
		a.addForm = nil
		price, err := cli.ParsePrice(a.addVals.Price)
		if err != nil {
			a.setMessage(err.Error(), false)
			return a, nil
		}
		w, err := a.ctrl.AddWish(a.addVals.Name, price)
		if err != nil {
			a.setMessage(err.Error(), false)
			return a, nil
		}
		a.refresh()
		a.cursor = len(a.rec.Wishes) - 1
		a.setMessage("added "+w.Name, true)
		return a, nil
	case huh.StateAborted:
		a.addForm = nil
		return a, nil
	}
	return a, cmd
}
