package app

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/beadplot/beadplot"
)

const noModelOption = "(none)"

type uiState struct {
	service    *beadplot.Service
	configPath string
	stored     beadplot.Config

	summary *beadplot.Summary
	source  beadplot.Source
	plot    *beadplot.Plot

	w           fyne.Window
	summaryLbl  *widget.Label
	sourceLbl   *widget.Label
	fileSelect  *widget.Select
	modelSelect *widget.Select
	status      *widget.Label
	statusBind  binding.String
	log         *widget.Entry
	charts      [2]*canvas.Image

	renderBtn *widget.Button
	exportBtn *widget.Button
}

func buildUI(a fyne.App, svc *beadplot.Service, configPath string, stored beadplot.Config, logBind binding.String) *uiState {
	u := &uiState{service: svc, configPath: configPath, stored: stored}
	u.w = a.NewWindow("Bead Data Plotter")

	u.statusBind = binding.NewString()
	_ = u.statusBind.Set("Ready")
	u.status = widget.NewLabelWithData(u.statusBind)
	u.status.Wrapping = fyne.TextWrapWord

	u.log = widget.NewEntryWithData(logBind)
	u.log.MultiLine = true
	u.log.Wrapping = fyne.TextWrapWord
	u.log.Disable()

	u.summaryLbl = widget.NewLabel("No summary loaded")
	u.summaryLbl.Truncation = fyne.TextTruncateEllipsis
	u.sourceLbl = widget.NewLabel("No data loaded")
	u.sourceLbl.Truncation = fyne.TextTruncateEllipsis

	u.fileSelect = widget.NewSelect(nil, func(string) { u.onRender() })
	u.fileSelect.PlaceHolder = "Select a CSV file to visualize"
	u.modelSelect = widget.NewSelect(nil, func(v string) {
		u.saveModel(v)
		u.onRender()
	})
	u.modelSelect.PlaceHolder = "Select a model for predictions"

	summaryBtn := widget.NewButtonWithIcon("Summary CSV", theme.FileIcon(), func() { u.onOpenSummary() })
	folderBtn := widget.NewButtonWithIcon("Data folder", theme.FolderOpenIcon(), func() { u.onOpenFolder() })
	archiveBtn := widget.NewButtonWithIcon("Data ZIP/CSV", theme.FolderOpenIcon(), func() { u.onOpenArchive() })
	u.renderBtn = widget.NewButtonWithIcon("Plot", theme.ConfirmIcon(), func() { u.onRender() })
	u.exportBtn = widget.NewButtonWithIcon("Export PNG", theme.DocumentSaveIcon(), func() { u.onExport() })
	u.exportBtn.Disable()

	cfg := svc.Config()
	for i := range u.charts {
		img := canvas.NewImageFromImage(beadplot.Blank(cfg.ChartWidth, cfg.ChartHeight))
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(640, 260))
		u.charts[i] = img
	}

	left := container.NewVBox(
		widget.NewLabelWithStyle("Upload Files", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		summaryBtn,
		u.summaryLbl,
		container.NewGridWithColumns(2, folderBtn, archiveBtn),
		u.sourceLbl,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Selection", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		u.fileSelect,
		u.modelSelect,
		container.NewGridWithColumns(2, u.renderBtn, u.exportBtn),
		widget.NewSeparator(),
		u.status,
	)
	sidebar := container.NewBorder(left, nil, nil, nil, container.NewVScroll(u.log))
	plots := container.NewGridWithRows(2, u.charts[0], u.charts[1])

	split := container.NewHSplit(sidebar, plots)
	split.Offset = 0.28
	u.w.SetContent(split)
	u.w.Resize(fyne.NewSize(1280, 860))
	return u
}

// restore reopens the summary and data paths remembered in config.json.
func (u *uiState) restore() {
	cfg := u.service.Config()
	if cfg.SummaryPath != "" {
		if summary, err := u.service.LoadSummary(cfg.SummaryPath); err == nil {
			u.setSummary(summary, cfg.SummaryPath)
		} else {
			u.setStatus(fmt.Sprintf("Could not reopen summary: %v", err))
		}
	}
	if cfg.DataPath != "" {
		if src, err := u.service.OpenSource(cfg.DataPath); err == nil {
			u.setSource(src)
		} else {
			u.setStatus(fmt.Sprintf("Could not reopen data: %v", err))
		}
	}
	if cfg.Model != "" && u.summary != nil {
		if m, ok := u.summary.Model(cfg.Model); ok {
			u.modelSelect.SetSelected(m.Prediction)
		}
	}
}

func (u *uiState) onOpenSummary() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			dialog.ShowError(fmt.Errorf("read summary: %w", err), u.w)
			return
		}
		summary, err := u.service.LoadSummaryBytes(rc.URI().Name(), data)
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.setSummary(summary, rc.URI().Path())
		u.updateConfig(func(cfg *beadplot.Config) { cfg.SummaryPath = rc.URI().Path() })
	}, u.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	fd.Show()
}

func (u *uiState) onOpenFolder() {
	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		if uri == nil {
			return
		}
		u.openSource(uri.Path())
	}, u.w)
	fd.Show()
}

func (u *uiState) onOpenArchive() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		if rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		u.openSource(path)
	}, u.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".zip", ".csv"}))
	fd.Show()
}

func (u *uiState) openSource(path string) {
	src, err := u.service.OpenSource(path)
	if err != nil {
		u.report(err)
		return
	}
	u.setSource(src)
	u.updateConfig(func(cfg *beadplot.Config) { cfg.DataPath = path })
}

func (u *uiState) setSummary(summary *beadplot.Summary, path string) {
	u.summary = summary
	u.summaryLbl.SetText(fmt.Sprintf("%s (%d rows)", filepath.Base(path), len(summary.Rows)))
	u.modelSelect.Options = modelOptions(summary)
	u.modelSelect.Refresh()
	if u.modelSelect.Selected == "" && len(u.modelSelect.Options) > 1 {
		u.modelSelect.SetSelected(u.modelSelect.Options[1])
	}
	u.refreshFiles()
}

func (u *uiState) setSource(src beadplot.Source) {
	if u.source != nil {
		_ = u.source.Close()
	}
	u.source = src
	u.sourceLbl.SetText(fmt.Sprintf("%s (%d files)", filepath.Base(src.Name()), len(src.Files())))
	u.refreshFiles()
}

func (u *uiState) refreshFiles() {
	u.fileSelect.Options = fileOptions(u.summary, u.source)
	u.fileSelect.Refresh()
}

func (u *uiState) onRender() {
	file := u.fileSelect.Selected
	if file == "" {
		return
	}
	if u.source == nil {
		u.clearPlot()
		dialog.ShowInformation("Notice", "Choose a data folder, ZIP archive or CSV file first.", u.w)
		return
	}
	model := u.modelSelect.Selected
	if model == noModelOption {
		model = ""
	}
	plot, err := u.service.Plot(u.summary, u.source, file, model)
	if err != nil {
		u.clearPlot()
		u.report(err)
		return
	}
	imgs, err := u.service.RenderCharts(plot)
	if err != nil {
		u.clearPlot()
		u.report(err)
		return
	}
	u.plot = plot
	for i, img := range imgs {
		u.setChart(i, img)
	}
	u.exportBtn.Enable()
	u.setStatus(statusText(plot))
}

func (u *uiState) onExport() {
	if u.plot == nil {
		dialog.ShowInformation("Export", "No chart to export.", u.w)
		return
	}
	img, err := u.service.Render(u.plot)
	if err != nil {
		dialog.ShowError(err, u.w)
		return
	}
	fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := beadplot.WritePNG(wc, img); err != nil {
			dialog.ShowError(err, u.w)
		}
	}, u.w)
	fd.SetFileName(exportName(u.plot))
	fd.Show()
}

// clearPlot drops the previous selection's charts so they cannot be exported
// under the new selection.
func (u *uiState) clearPlot() {
	u.plot = nil
	cfg := u.service.Config()
	for i := range u.charts {
		u.setChart(i, beadplot.Blank(cfg.ChartWidth, cfg.ChartHeight))
	}
	u.exportBtn.Disable()
}

func (u *uiState) setChart(i int, img image.Image) {
	u.charts[i].Image = img
	u.charts[i].Refresh()
}

func (u *uiState) saveModel(v string) {
	if v == noModelOption {
		v = ""
	}
	u.updateConfig(func(cfg *beadplot.Config) { cfg.Model = v })
}

// updateConfig changes the running configuration and persists the same change
// on top of the file contents.
func (u *uiState) updateConfig(mutate func(cfg *beadplot.Config)) {
	cfg := u.service.Config()
	mutate(&cfg)
	u.service.UpdateConfig(cfg)
	stored, err := persistConfig(u.configPath, u.stored, mutate)
	if err != nil {
		u.setStatus(fmt.Sprintf("Could not save settings: %v", err))
		return
	}
	u.stored = stored
}

// report shows expected input problems as notices and everything else as errors.
func (u *uiState) report(err error) {
	u.setStatus(err.Error())
	if isNotice(err) {
		dialog.ShowInformation("Notice", err.Error(), u.w)
		return
	}
	dialog.ShowError(err, u.w)
}

func (u *uiState) setStatus(text string) {
	_ = u.statusBind.Set(text)
}

func isNotice(err error) bool {
	return errors.Is(err, beadplot.ErrFileNotFound) || errors.Is(err, beadplot.ErrNoDataFiles)
}
