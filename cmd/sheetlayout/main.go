package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/aerissecure/sheetlayout"
	"github.com/aerissecure/sheetlayout/markup"
	"github.com/aerissecure/sheetlayout/xlsx"
)

func main() {
	app := kingpin.New("sheetlayout", "Generate spreadsheet workbooks from YAML layout documents.")
	app.HelpFlag.Short('h')
	verbose := app.Flag("verbose", "log layout details").Short('v').Bool()

	render := app.Command("render", "Render a layout document to a workbook.")
	renderDoc := render.Arg("document", "layout document").Required().ExistingFile()
	renderData := render.Flag("data", "YAML data bound to sheets without their own data").ExistingFile()
	renderConfig := render.Flag("config", "generator config").ExistingFile()
	renderBackend := render.Flag("backend", "workbook writer, overrides the config").Enum(string(sheetlayout.Unioffice), string(sheetlayout.Excelize))
	renderOut := render.Flag("out", "output workbook").Short('o').Default("out.xlsx").String()
	renderPreview := render.Flag("preview", "also write an HTML preview to this file").String()

	preview := app.Command("preview", "Render a workbook as HTML.")
	previewIn := preview.Arg("workbook", "xlsx workbook").Required().ExistingFile()
	previewOut := preview.Flag("out", "output file, stdout when empty").Short('o').String()

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	var err error
	switch cmd {
	case render.FullCommand():
		err = runRender(log, *renderDoc, *renderData, *renderConfig, *renderBackend, *renderOut, *renderPreview)
	case preview.FullCommand():
		err = runPreview(*previewIn, *previewOut)
	}
	if err != nil {
		log.WithError(err).Error(cmd + " failed")
		os.Exit(1)
	}
}

func runRender(log logrus.FieldLogger, docPath, dataPath, configPath, backend, out, previewPath string) error {
	doc, err := markup.Load(docPath)
	if err != nil {
		return err
	}
	if dataPath != "" {
		data, err := markup.LoadData(dataPath)
		if err != nil {
			return err
		}
		doc.Bind(data)
	}

	opts := []sheetlayout.Option{sheetlayout.WithLogger(log), sheetlayout.WithResources(doc.Resources)}
	if configPath != "" {
		c, err := sheetlayout.LoadConfig(configPath)
		if err != nil {
			return err
		}
		opts = append(opts, c.Options()...)
	}
	if backend != "" {
		opts = append(opts, sheetlayout.WithBackend(sheetlayout.Backend(backend)))
	}

	res := sheetlayout.New(opts...).Generate(doc.Layout())
	if res.Err != nil {
		return res.Err
	}
	if err := os.WriteFile(out, res.Document, 0o644); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	fmt.Printf("wrote %s (%s)\n", out, humanize.Bytes(uint64(len(res.Document))))

	if previewPath == "" {
		return nil
	}
	m, err := xlsx.Read(bytes.NewReader(res.Document), int64(len(res.Document)))
	if err != nil {
		return err
	}
	return writePreview(m, previewPath)
}

func runPreview(in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return errors.Wrap(err, "open workbook")
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return errors.Wrap(err, "stat workbook")
	}
	m, err := xlsx.Read(f, st.Size())
	if err != nil {
		return err
	}
	if out == "" {
		return xlsx.WriteHTML(os.Stdout, m)
	}
	return writePreview(m, out)
}

func writePreview(m xlsx.Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create preview")
	}
	if err := xlsx.WriteHTML(f, m); err != nil {
		f.Close()
		return errors.Wrap(err, "write preview")
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
