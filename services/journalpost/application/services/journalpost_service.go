package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ghuser/hmjoarksink/pkg/logger"
	"github.com/ghuser/hmjoarksink/pkg/telemetry"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/builders"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/models"
	"github.com/ghuser/hmjoarksink/services/journalpost/infrastructure/forsteside"
	"github.com/ghuser/hmjoarksink/services/journalpost/infrastructure/pdf"
)

// Archive is the document archive. *dokarkiv.Client satisfies it.
type Archive interface {
	OpprettJournalpost(ctx context.Context, req *models.OpprettJournalpostRequest, forsoekFerdigstill bool, opprettetAv string) (*models.OpprettJournalpostResponse, error)
	OppdaterJournalpost(ctx context.Context, journalpostID string, req *models.OppdaterJournalpostRequest) (string, error)
	FerdigstillJournalpost(ctx context.Context, journalpostID, enhet string) error
	FeilregistrerSakstilknytning(ctx context.Context, journalpostID string) error
	KnyttTilAnnenSak(ctx context.Context, journalpostID string, req *models.KnyttTilAnnenSakRequest) (string, error)
	OverstyrInnsyn(ctx context.Context, journalpostID string) error
}

// Lookup reads journal posts and documents from the archive. *saf.Client satisfies it.
type Lookup interface {
	HentJournalpost(ctx context.Context, journalpostID string) (*models.Journalpost, error)
	HentJournalposterForSak(ctx context.Context, sakID string) ([]models.Journalpost, error)
	HentDokument(ctx context.Context, journalpostID, dokumentInfoID, variantformat string) ([]byte, error)
}

// Renderer renders and merges PDFs. *pdf.Client satisfies it.
type Renderer interface {
	GenererBarnebrillePdf(ctx context.Context, data any) ([]byte, error)
	GenererBrev(ctx context.Context, mappe, brevID, malform string, data any) ([]byte, error)
	KombinerPdf(ctx context.Context, parts ...[]byte) ([]byte, error)
}

// CoverSheets generates cover sheets. *forsteside.Client satisfies it.
type CoverSheets interface {
	LagForsteside(ctx context.Context, req *builders.ForstesideRequest) (*forsteside.Forsteside, error)
}

// Behovsmeldinger serves rendered applications. *soknadapi.Client satisfies it.
type Behovsmeldinger interface {
	HentBehovsmeldingPdf(ctx context.Context, soknadID string) ([]byte, error)
}

// dokumentFetchLimit bounds concurrent document downloads when copying.
const dokumentFetchLimit = 4

// JournalpostService runs the archive workflows. Each method is a short
// linear pipeline of idempotent downstream calls; failures propagate to the
// caller, which decides whether to retry.
type JournalpostService struct {
	archive         Archive
	lookup          Lookup
	renderer        Renderer
	coverSheets     CoverSheets
	behovsmeldinger Behovsmeldinger
	metrics         *telemetry.Metrics
	log             logger.Logger
}

// NewJournalpostService returns a JournalpostService. metrics may be nil.
func NewJournalpostService(
	archive Archive,
	lookup Lookup,
	renderer Renderer,
	coverSheets CoverSheets,
	behovsmeldinger Behovsmeldinger,
	metrics *telemetry.Metrics,
	log logger.Logger,
) *JournalpostService {
	return &JournalpostService{
		archive:         archive,
		lookup:          lookup,
		renderer:        renderer,
		coverSheets:     coverSheets,
		behovsmeldinger: behovsmeldinger,
		metrics:         metrics,
		log:             log,
	}
}

// HentBehovsmeldingPdf returns the rendered application.
func (s *JournalpostService) HentBehovsmeldingPdf(ctx context.Context, soknadID string) ([]byte, error) {
	pdf, err := s.behovsmeldinger.HentBehovsmeldingPdf(ctx, soknadID)
	if err != nil {
		return nil, fmt.Errorf("hent behovsmelding-pdf for soknadId %s: %w", soknadID, err)
	}
	return pdf, nil
}

// GenererBarnebrillePdf renders a barnebriller claim.
func (s *JournalpostService) GenererBarnebrillePdf(ctx context.Context, data any) ([]byte, error) {
	pdf, err := s.renderer.GenererBarnebrillePdf(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("generer barnebrille-pdf: %w", err)
	}
	s.metrics.PdfGenerert(ctx, string(models.DokumenttypeKravBarnebrillerOptiker))
	return pdf, nil
}

// Avvisningsbrev describes a rejection letter to an optician.
type Avvisningsbrev struct {
	FnrBarn            string
	EksternReferanseID string
	DatoMottatt        time.Time
	Data               any
}

// JournalforAvvisningsbrev renders the rejection letter and files it as an
// outbound journal post on the general case. The archive must finalize it.
func (s *JournalpostService) JournalforAvvisningsbrev(ctx context.Context, a Avvisningsbrev) (*models.OpprettJournalpostResponse, error) {
	brev, err := s.renderer.GenererBrev(ctx, pdf.BrevmappeBarnebriller, pdf.BrevAvvisningDirekteoppgjor, pdf.MalformBokmal, a.Data)
	if err != nil {
		return nil, fmt.Errorf("generer avvisningsbrev: %w", err)
	}
	dokumenttype := models.DokumenttypeKravBarnebrillerOptikerAvvisning
	s.metrics.PdfGenerert(ctx, string(dokumenttype))

	b := builders.NewOpprettJournalpost(a.FnrBarn, a.FnrBarn, dokumenttype, models.JournalposttypeUtgaaende, a.EksternReferanseID).
		Dokument(brev).
		GenerellSak().
		DatoMottatt(a.DatoMottatt)
	return s.OpprettOgFerdigstillJournalpost(ctx, b)
}

// ArkiverBehovsmelding describes an application to file without a case link.
type ArkiverBehovsmelding struct {
	FnrBruker          string
	SoknadID           string
	Sakstype           models.Sakstype
	Dokumenttittel     string
	EksternReferanseID string
	DatoMottatt        *time.Time
}

// ArkiverBehovsmelding files an application as an inbound journal post left
// in status MOTTATT for manual processing. It returns the journalpostId.
func (s *JournalpostService) ArkiverBehovsmelding(ctx context.Context, a ArkiverBehovsmelding) (string, error) {
	s.log.InfoContext(ctx, "arkiverer behovsmelding",
		"soknad_id", a.SoknadID, "sakstype", a.Sakstype, "ekstern_referanse_id", a.EksternReferanseID)

	fysiskDokument, err := s.HentBehovsmeldingPdf(ctx, a.SoknadID)
	if err != nil {
		return "", err
	}

	dokumenttype := a.Sakstype.Dokumenttype()
	b := builders.NewOpprettJournalpost(a.FnrBruker, a.FnrBruker, dokumenttype, models.JournalposttypeInngaaende, a.EksternReferanseID).
		Dokument(fysiskDokument, builders.MedTittel(a.Dokumenttittel)).
		JournalforendeEnhet("")
	if a.DatoMottatt != nil {
		b.DatoMottatt(*a.DatoMottatt)
	}
	req, err := b.Build()
	if err != nil {
		return "", fmt.Errorf("arkiver behovsmelding %s: %w", a.SoknadID, err)
	}

	resp, err := s.archive.OpprettJournalpost(ctx, req, false, "")
	if err != nil {
		return "", fmt.Errorf("arkiver behovsmelding %s: %w", a.SoknadID, err)
	}
	s.metrics.MottattJournalpost(ctx, string(dokumenttype))
	s.metrics.SoknadLagret(ctx, string(dokumenttype))
	s.log.InfoContext(ctx, "behovsmelding arkivert",
		"soknad_id", a.SoknadID, "journalpost_id", resp.JournalpostID)
	return resp.JournalpostID, nil
}

// OpprettOgFerdigstillJournalpost creates the journal post built by b and
// requires the archive to finalize it.
func (s *JournalpostService) OpprettOgFerdigstillJournalpost(ctx context.Context, b *builders.OpprettJournalpost) (*models.OpprettJournalpostResponse, error) {
	req, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("opprett journalpost %s: %w", b.EksternReferanseID(), err)
	}
	resp, err := s.archive.OpprettJournalpost(ctx, req, true, b.Ident())
	if err != nil {
		return nil, fmt.Errorf("opprett journalpost %s: %w", b.EksternReferanseID(), err)
	}
	s.metrics.FerdigstiltJournalpost(ctx, string(b.Dokumenttype()))
	s.log.InfoContext(ctx, "journalpost opprettet og ferdigstilt",
		"journalpost_id", resp.JournalpostID, "ekstern_referanse_id", b.EksternReferanseID(),
		"dokumenttype", b.Dokumenttype())
	return resp, nil
}

// FerdigstillJournalpost describes a manually filed journal post to link to a case.
type FerdigstillJournalpost struct {
	JournalpostID       string
	JournalforendeEnhet string
	FnrBruker           string
	SakID               string
	DokumentID          string
	Dokumenttittel      string
}

// FerdigstillJournalpost links a journal post to a Hotsak case and finalizes
// it. A journal post still in MOTTATT is updated and finalized in place; one
// that is already finalized is copied onto the case. It returns the id of the
// finalized journal post.
func (s *JournalpostService) FerdigstillJournalpost(ctx context.Context, f FerdigstillJournalpost) (string, error) {
	jp, err := s.lookup.HentJournalpost(ctx, f.JournalpostID)
	if err != nil {
		return "", fmt.Errorf("ferdigstill journalpost %s: %w", f.JournalpostID, err)
	}
	if jp == nil {
		return "", fmt.Errorf("ferdigstill journalpost %s: %w", f.JournalpostID, domain.ErrRecordNotFound)
	}

	log := s.log.With("journalpost_id", f.JournalpostID, "sak_id", f.SakID, "journalstatus", jp.Journalstatus)

	switch jp.Journalstatus {
	case models.JournalstatusMottatt:
		req := &models.OppdaterJournalpostRequest{
			AvsenderMottaker: models.AvsenderMottakerMedFnr(f.FnrBruker),
			Bruker:           models.BrukerMedFnr(f.FnrBruker),
			Sak:              models.FagsakHotsak(f.SakID),
			Tema:             models.TemaHJE,
			Tittel:           f.Dokumenttittel,
		}
		if f.DokumentID != "" && f.Dokumenttittel != "" {
			req.Dokumenter = []models.DokumentInfo{{DokumentInfoID: f.DokumentID, Tittel: f.Dokumenttittel}}
		}
		if _, err := s.archive.OppdaterJournalpost(ctx, f.JournalpostID, req); err != nil {
			return "", fmt.Errorf("oppdater journalpost %s: %w", f.JournalpostID, err)
		}
		if err := s.archive.FerdigstillJournalpost(ctx, f.JournalpostID, f.JournalforendeEnhet); err != nil {
			return "", fmt.Errorf("ferdigstill journalpost %s: %w", f.JournalpostID, err)
		}
		s.metrics.FerdigstiltJournalpost(ctx, "")
		log.InfoContext(ctx, "journalpost oppdatert og ferdigstilt")
		return f.JournalpostID, nil

	case models.JournalstatusJournalfoert, models.JournalstatusFerdigstilt, models.JournalstatusEkspedert:
		nyJournalpostID, err := s.archive.KnyttTilAnnenSak(ctx, f.JournalpostID, &models.KnyttTilAnnenSakRequest{
			Bruker:               *models.BrukerMedFnr(f.FnrBruker),
			FagsakID:             f.SakID,
			Fagsaksystem:         models.FagsaksystemHotsak,
			JournalfoerendeEnhet: f.JournalforendeEnhet,
			Sakstype:             models.SakstypeFagsak,
			Tema:                 models.TemaHJE,
		})
		if err != nil {
			return "", fmt.Errorf("knytt journalpost %s til sak %s: %w", f.JournalpostID, f.SakID, err)
		}
		if f.Dokumenttittel != "" {
			if _, err := s.archive.OppdaterJournalpost(ctx, nyJournalpostID, &models.OppdaterJournalpostRequest{
				Tittel: f.Dokumenttittel,
			}); err != nil {
				return "", fmt.Errorf("oppdater tittel paa journalpost %s: %w", nyJournalpostID, err)
			}
		}
		log.InfoContext(ctx, "journalpost knyttet til annen sak", "ny_journalpost_id", nyJournalpostID)
		return nyJournalpostID, nil

	default:
		return "", fmt.Errorf("ferdigstill journalpost %s with status %s: %w",
			f.JournalpostID, jp.Journalstatus, domain.ErrUnsupportedStatus)
	}
}

// FeilregistrerSakstilknytning marks the case link of a journal post as
// erroneous. Repeating it is harmless.
func (s *JournalpostService) FeilregistrerSakstilknytning(ctx context.Context, journalpostID string) error {
	s.log.InfoContext(ctx, "feilregistrerer sakstilknytning", "journalpost_id", journalpostID)
	if err := s.archive.FeilregistrerSakstilknytning(ctx, journalpostID); err != nil {
		return fmt.Errorf("feilregistrer sakstilknytning for journalpost %s: %w", journalpostID, err)
	}
	s.metrics.FeilregistrertSakstilknytning(ctx)
	return nil
}

// Erstatt describes a journal post to replace with a new one that is not
// linked to any case.
type Erstatt struct {
	JournalpostID  string
	SoknadID       string
	FnrBruker      string
	Sakstype       models.Sakstype
	Dokumenttittel string
}

// EksternReferanseID is the idempotency key of the replacement.
func (e Erstatt) EksternReferanseID() string {
	return e.SoknadID + "_" + e.JournalpostID + "_HOTSAK_TIL_GOSYS"
}

// FeilregistrerOgErstatt marks the case link of e.JournalpostID as erroneous
// and files a replacement. It returns the new journalpostId.
func (s *JournalpostService) FeilregistrerOgErstatt(ctx context.Context, e Erstatt) (string, error) {
	if err := s.FeilregistrerSakstilknytning(ctx, e.JournalpostID); err != nil {
		return "", err
	}
	return s.Erstatt(ctx, e)
}

// Erstatt files a replacement for a journal post whose case link is already
// erroneous. Applications are archived again from the source; barnebriller
// journal posts are copied.
func (s *JournalpostService) Erstatt(ctx context.Context, e Erstatt) (string, error) {
	s.log.InfoContext(ctx, "oppretter ny journalpost etter feilregistrering",
		"journalpost_id", e.JournalpostID, "soknad_id", e.SoknadID, "sakstype", e.Sakstype)

	switch e.Sakstype {
	case models.SakstypeSoknad, models.SakstypeBestilling:
		return s.ArkiverBehovsmelding(ctx, ArkiverBehovsmelding{
			FnrBruker:          e.FnrBruker,
			SoknadID:           e.SoknadID,
			Sakstype:           e.Sakstype,
			Dokumenttittel:     e.Dokumenttittel,
			EksternReferanseID: e.EksternReferanseID(),
		})
	case models.SakstypeBarnebriller:
		return s.KopierJournalpost(ctx, e.JournalpostID, e.EksternReferanseID())
	default:
		return "", fmt.Errorf("erstatt journalpost %s with sakstype %s: %w",
			e.JournalpostID, e.Sakstype, domain.ErrUnsupportedSakstype)
	}
}

type variantRef struct {
	dokument int
	variant  int
}

// KopierJournalpost creates a new inbound-state journal post with the same
// metadata and documents as journalpostID. Documents are downloaded
// concurrently and keep their order. It returns the new journalpostId.
func (s *JournalpostService) KopierJournalpost(ctx context.Context, journalpostID, eksternReferanseID string) (string, error) {
	jp, err := s.lookup.HentJournalpost(ctx, journalpostID)
	if err != nil {
		return "", fmt.Errorf("kopier journalpost %s: %w", journalpostID, err)
	}
	if jp == nil {
		return "", fmt.Errorf("kopier journalpost %s: %w", journalpostID, domain.ErrRecordNotFound)
	}
	s.log.InfoContext(ctx, "kopierer journalpost",
		"journalpost_id", journalpostID, "ekstern_referanse_id", jp.EksternReferanseID)

	journalposttype, err := models.OpprettJournalposttype(jp.Journalposttype)
	if err != nil {
		return "", fmt.Errorf("kopier journalpost %s: %w", journalpostID, err)
	}

	dokumenter := make([]models.Dokument, len(jp.Dokumenter))
	var refs []variantRef
	for i, d := range jp.Dokumenter {
		dokumenter[i] = models.Dokument{
			Brevkode:          d.Brevkode,
			Tittel:            d.Tittel,
			Dokumentvarianter: make([]models.DokumentVariant, len(d.Dokumentvarianter)),
		}
		for j, v := range d.Dokumentvarianter {
			filtype := v.Filtype
			if filtype == "" {
				filtype = models.FiltypePDFA
			}
			dokumenter[i].Dokumentvarianter[j] = models.DokumentVariant{Filtype: filtype, Variantformat: v.Variantformat}
			refs = append(refs, variantRef{dokument: i, variant: j})
		}
	}
	if len(refs) == 0 {
		return "", fmt.Errorf("kopier journalpost %s: %w", journalpostID, domain.ErrNoDocuments)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dokumentFetchLimit)
	for _, ref := range refs {
		dokumentInfoID := jp.Dokumenter[ref.dokument].DokumentInfoID
		variant := &dokumenter[ref.dokument].Dokumentvarianter[ref.variant]
		g.Go(func() error {
			b, err := s.lookup.HentDokument(gctx, journalpostID, dokumentInfoID, variant.Variantformat)
			if err != nil {
				return fmt.Errorf("hent dokument %s/%s: %w", dokumentInfoID, variant.Variantformat, err)
			}
			variant.FysiskDokument = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("kopier journalpost %s: %w", journalpostID, err)
	}

	req := &models.OpprettJournalpostRequest{
		Dokumenter:           dokumenter,
		EksternReferanseID:   eksternReferanseID,
		Journalposttype:      journalposttype,
		Behandlingstema:      jp.Behandlingstema,
		JournalfoerendeEnhet: jp.JournalfoerendeEnhet,
		Kanal:                jp.Kanal,
		Tema:                 jp.Tema,
		Tittel:               jp.Tittel,
	}
	if am := jp.AvsenderMottaker; am != nil {
		idType, err := models.AvsenderMottakerIDType(am.Type)
		if err != nil {
			return "", fmt.Errorf("kopier journalpost %s: %w", journalpostID, err)
		}
		req.AvsenderMottaker = &models.AvsenderMottaker{ID: am.ID, IDType: idType, Navn: am.Navn}
	}
	if br := jp.Bruker; br != nil {
		if br.ID == "" {
			return "", fmt.Errorf("kopier journalpost %s: bruker uten id", journalpostID)
		}
		idType, err := models.BrukerIDType(br.Type)
		if err != nil {
			return "", fmt.Errorf("kopier journalpost %s: %w", journalpostID, err)
		}
		req.Bruker = &models.Bruker{ID: br.ID, IDType: idType}
	}
	if jp.DatoOpprettet != nil && !jp.DatoOpprettet.IsZero() {
		t := jp.DatoOpprettet.Time
		req.DatoDokument = &t
	}

	resp, err := s.archive.OpprettJournalpost(ctx, req, false, "")
	if err != nil {
		return "", fmt.Errorf("kopier journalpost %s: %w", journalpostID, err)
	}
	s.metrics.MottattJournalpost(ctx, "")
	s.log.InfoContext(ctx, "journalpost kopiert",
		"journalpost_id", journalpostID, "ny_journalpost_id", resp.JournalpostID)
	return resp.JournalpostID, nil
}

// KnyttTilNySak describes moving every journal post of one case to another.
type KnyttTilNySak struct {
	FraSakID            string
	TilSakID            string
	FnrBruker           string
	JournalforendeEnhet string
}

// KnyttJournalposterTilNySak marks the case link of every journal post on
// k.FraSakID as erroneous and finalizes it on k.TilSakID. It returns the new
// journalpostId keyed by the old one.
func (s *JournalpostService) KnyttJournalposterTilNySak(ctx context.Context, k KnyttTilNySak) (map[string]string, error) {
	journalposter, err := s.lookup.HentJournalposterForSak(ctx, k.FraSakID)
	if err != nil {
		return nil, fmt.Errorf("hent journalposter for sak %s: %w", k.FraSakID, err)
	}
	s.log.InfoContext(ctx, "knytter journalposter til ny sak",
		"fra_sak_id", k.FraSakID, "til_sak_id", k.TilSakID, "antall", len(journalposter))

	nye := make(map[string]string, len(journalposter))
	for _, jp := range journalposter {
		if err := s.FeilregistrerSakstilknytning(ctx, jp.JournalpostID); err != nil {
			return nil, err
		}
		nyID, err := s.FerdigstillJournalpost(ctx, FerdigstillJournalpost{
			JournalpostID:       jp.JournalpostID,
			JournalforendeEnhet: k.JournalforendeEnhet,
			FnrBruker:           k.FnrBruker,
			SakID:               k.TilSakID,
		})
		if err != nil {
			return nil, err
		}
		nye[jp.JournalpostID] = nyID
	}
	return nye, nil
}

// EndreTittel renames a journal post and, optionally, its documents.
func (s *JournalpostService) EndreTittel(ctx context.Context, journalpostID, tittel string, dokumenter []models.DokumentInfo) (string, error) {
	s.log.InfoContext(ctx, "endrer tittel paa journalpost", "journalpost_id", journalpostID)
	id, err := s.archive.OppdaterJournalpost(ctx, journalpostID, &models.OppdaterJournalpostRequest{
		Tittel:     tittel,
		Dokumenter: dokumenter,
	})
	if err != nil {
		return "", fmt.Errorf("endre tittel paa journalpost %s: %w", journalpostID, err)
	}
	return id, nil
}

// Forsteside describes a letter to send with a cover sheet in front.
type Forsteside struct {
	Tittel         string
	FnrBruker      string
	Sprakkode      models.Sprakkode
	Brevkode       string
	FysiskDokument []byte
}

// GenererForsteside generates a cover sheet and returns it merged in front of
// f.FysiskDokument.
func (s *JournalpostService) GenererForsteside(ctx context.Context, f Forsteside) ([]byte, error) {
	req := builders.NewForsteside(f.Tittel, f.FnrBruker).
		Sprakkode(f.Sprakkode).
		Brevkode(f.Brevkode).
		Build()
	sheet, err := s.coverSheets.LagForsteside(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("lag forsteside: %w", err)
	}
	merged, err := s.renderer.KombinerPdf(ctx, sheet.FysiskDokument, f.FysiskDokument)
	if err != nil {
		return nil, fmt.Errorf("kombiner forsteside og brev: %w", err)
	}
	s.metrics.PdfGenerert(ctx, "FORSTESIDE")
	return merged, nil
}

// OverstyrInnsyn makes a journal post visible to the user.
func (s *JournalpostService) OverstyrInnsyn(ctx context.Context, journalpostID string) error {
	s.log.InfoContext(ctx, "overstyrer innsynsregler", "journalpost_id", journalpostID)
	if err := s.archive.OverstyrInnsyn(ctx, journalpostID); err != nil {
		return fmt.Errorf("overstyr innsyn for journalpost %s: %w", journalpostID, err)
	}
	return nil
}
